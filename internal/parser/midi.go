package parser

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"git.lost.host/meutraa/twolane/internal/game"
)

// MidiParser turns the notes of a standard MIDI file into a chart. Keys are
// folded onto the lanes by key modulo Lanes.
type MidiParser struct {
	Lanes uint8
}

type openKey struct {
	channel uint8
	key     uint8
}

func (p *MidiParser) Parse(file string) ([]*game.Chart, error) {
	lanes := p.Lanes
	if lanes == 0 {
		lanes = 2
	}

	s, err := smf.ReadFile(file)
	if nil != err {
		return nil, &game.FormatError{Path: file, Index: -1, Field: "midi", Reason: err.Error()}
	}

	notes := []game.Note{}
	for _, track := range s.Tracks {
		var ticks int64
		open := map[openKey]int64{}
		for _, ev := range track {
			ticks += int64(ev.Delta)
			var ch, key, vel uint8
			msg := midi.Message(ev.Message)
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				if _, ok := open[openKey{ch, key}]; !ok {
					open[openKey{ch, key}] = ticks
				}
			case msg.GetNoteEnd(&ch, &key):
				start, ok := open[openKey{ch, key}]
				if !ok {
					continue
				}
				delete(open, openKey{ch, key})
				begin := micros(s.TimeAt(start))
				n := game.Note{Lane: key % lanes, Time: begin}
				if d := micros(s.TimeAt(ticks)) - begin; d >= game.HoldThreshold {
					n.Duration = d
				}
				notes = append(notes, n)
			}
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return []*game.Chart{game.NewChartWithDifficulty(name, notes, game.Difficulty{Lanes: lanes})}, nil
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
