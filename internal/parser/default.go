package parser

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"math"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"git.lost.host/meutraa/twolane/internal/game"
)

// DefaultParser reads the chart.json format:
//
//	{"notes": [{"time": 1000, "side": 0, "duration": 500}, ...]}
//
// time and duration are in milliseconds. A missing, null or zero duration is
// a tap.
type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, err
	}
	name := filepath.Base(filepath.Dir(file))
	chart, err := p.ParseBytes(name, data)
	if nil != err {
		if fe, ok := err.(*game.FormatError); ok {
			fe.Path = file
		}
		return nil, err
	}
	return []*game.Chart{chart}, nil
}

// ParseBytes parses an in-memory chart document.
func (p *DefaultParser) ParseBytes(name string, data []byte) (*game.Chart, error) {
	if !gjson.ValidBytes(data) {
		return nil, docError("json", "invalid document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, docError("json", "document is not an object")
	}
	list := doc.Get("notes")
	if !list.Exists() {
		return nil, docError("notes", "missing")
	}
	if !list.IsArray() {
		return nil, docError("notes", "not an array")
	}

	records := list.Array()
	notes := make([]game.Note, 0, len(records))
	for i, record := range records {
		n, err := parseNote(i, record)
		if nil != err {
			return nil, err
		}
		notes = append(notes, n)
	}
	return game.NewChart(name, notes), nil
}

func parseNote(i int, record gjson.Result) (game.Note, error) {
	if !record.IsObject() {
		return game.Note{}, noteError(i, "note", "not an object")
	}

	t := record.Get("time")
	if !t.Exists() {
		return game.Note{}, noteError(i, "time", "missing")
	}
	if t.Type != gjson.Number {
		return game.Note{}, noteError(i, "time", "not a number")
	}

	side := record.Get("side")
	if !side.Exists() {
		return game.Note{}, noteError(i, "side", "missing")
	}
	if side.Type != gjson.Number {
		return game.Note{}, noteError(i, "side", "not a number")
	}
	if side.Num != math.Trunc(side.Num) {
		return game.Note{}, noteError(i, "side", "not an integer")
	}
	if side.Num < 0 || side.Num > math.MaxUint8 {
		return game.Note{}, noteError(i, "side", "out of range")
	}

	var duration float64
	switch d := record.Get("duration"); d.Type {
	case gjson.Null:
	case gjson.Number:
		if d.Num < 0 {
			return game.Note{}, noteError(i, "duration", "negative")
		}
		duration = d.Num
	default:
		return game.Note{}, noteError(i, "duration", "not a number")
	}

	return game.Note{
		Lane:     uint8(side.Num),
		Time:     millis(t.Num),
		Duration: millis(duration),
	}, nil
}

func millis(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Millisecond)))
}

func docError(field, reason string) error {
	return &game.FormatError{Index: -1, Field: field, Reason: reason}
}

func noteError(i int, field, reason string) error {
	return &game.FormatError{Index: i, Field: field, Reason: reason}
}

type record struct {
	Time     float64 `json:"time"`
	Side     uint8   `json:"side"`
	Duration float64 `json:"duration,omitempty"`
}

// Write stores the chart in the format DefaultParser reads, in time order.
func Write(w io.Writer, chart *game.Chart) error {
	doc := struct {
		Notes []record `json:"notes"`
	}{Notes: []record{}}
	for _, n := range chart.SortedByTime() {
		doc.Notes = append(doc.Notes, record{
			Time:     toMillis(n.Time),
			Side:     n.Lane,
			Duration: toMillis(n.Duration),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
