package parser

import (
	"io/ioutil"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

type bpm struct {
	StartingBeat float64
	Value        float64
}

// StepManiaParser imports the charts of a .sm file, one per supported
// difficulty. Mines and the other special notes are dropped.
type StepManiaParser struct{}

func (p *StepManiaParser) getSecondsPerNote(rates []bpm, currentBeat float64, bpn float64) float64 {
	sel := 0.0
	for _, rate := range rates {
		if currentBeat >= rate.StartingBeat {
			sel = rate.Value
		} else {
			break
		}
	}
	return bpn * 60.0 / sel
}

type section struct {
	difficulty game.Difficulty
	body       string
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func (p *StepManiaParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]
	parts := []section{}
	for _, s := range sections[1:] {
		lines := strings.SplitN(s, "\n", 7)
		if len(lines) < 7 {
			return nil, &game.FormatError{Path: file, Index: -1, Field: "NOTES", Reason: "truncated header"}
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		lanes, ok := game.LaneMap[chartType]
		if !ok {
			continue
		}
		parts = append(parts, section{
			difficulty: game.Difficulty{
				Name:  strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
				Meter: strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
				Lanes: lanes,
			},
			body: lines[6],
		})
	}

	title := ""
	offset := 0.0
	rates := []bpm{}
	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		switch {
		case strings.HasPrefix(mdl, "TITLE:"):
			title = strings.TrimSuffix(strings.TrimPrefix(mdl, "TITLE:"), ";")
		case strings.HasPrefix(mdl, "OFFSET:"):
			mdl = strings.TrimSuffix(strings.TrimPrefix(mdl, "OFFSET:"), ";")
			offs, err := strconv.ParseFloat(strings.TrimSpace(mdl), 64)
			if nil != err {
				return nil, &game.FormatError{Path: file, Index: -1, Field: "OFFSET", Reason: err.Error()}
			}
			offset = -offs
		case strings.HasPrefix(mdl, "BPMS:"):
			mdl = strings.TrimPrefix(mdl, "BPMS:")
			mdl = strings.ReplaceAll(mdl, "\n", "")
			for _, pair := range strings.Split(strings.TrimSuffix(mdl, ";"), ",") {
				as := strings.Split(pair, "=")
				if len(as) != 2 {
					return nil, &game.FormatError{Path: file, Index: -1, Field: "BPMS", Reason: "expected beat=bpm"}
				}
				beat, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return nil, &game.FormatError{Path: file, Index: -1, Field: "BPMS", Reason: err.Error()}
				}
				value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return nil, &game.FormatError{Path: file, Index: -1, Field: "BPMS", Reason: err.Error()}
				}
				rates = append(rates, bpm{StartingBeat: beat, Value: value})
			}
		}
	}
	if len(rates) == 0 || rates[0].Value <= 0 {
		return nil, &game.FormatError{Path: file, Index: -1, Field: "BPMS", Reason: "no starting tempo"}
	}

	charts := []*game.Chart{}
	for _, part := range parts {
		charts = append(charts, p.parseSection(title, offset, rates, part))
	}
	return charts, nil
}

func (p *StepManiaParser) parseSection(title string, offset float64, rates []bpm, part section) *game.Chart {
	seconds := offset
	currentBeat := 0.0
	notes := []game.Note{}
	// Index into notes of the open hold head per column
	heads := map[int]int{}

	at := func() time.Duration {
		return time.Duration(seconds * float64(time.Second))
	}

	for _, block := range strings.Split(part.body, "\n,") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			if strings.HasPrefix(l, " ") || strings.Contains(l, "-") {
				continue
			}
			l = strings.TrimSpace(l)
			if len(l) >= int(part.difficulty.Lanes) {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}

		// Beat count is 4 per block
		beatsPerNote := 4.0 / float64(len(lines))
		for _, line := range lines {
			for i, c := range []byte(line) {
				if i >= int(part.difficulty.Lanes) {
					break
				}
				switch c {
				case '1':
					notes = append(notes, game.Note{Lane: uint8(i), Time: at()})
				case '2', '4':
					heads[i] = len(notes)
					notes = append(notes, game.Note{Lane: uint8(i), Time: at()})
				case '3':
					// Closes the last head in this column
					if j, ok := heads[i]; ok {
						notes[j].Duration = at() - notes[j].Time
						delete(heads, i)
					}
				}
			}
			seconds += p.getSecondsPerNote(rates, currentBeat, beatsPerNote)
			currentBeat += beatsPerNote
		}
	}

	name := title
	if part.difficulty.Name != "" {
		name += " (" + part.difficulty.Name + ")"
	}
	return game.NewChartWithDifficulty(name, notes, part.difficulty)
}
