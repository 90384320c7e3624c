package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/testdata"
)

func TestParseBytes(t *testing.T) {
	p := &DefaultParser{}
	chart, err := p.ParseBytes("song", []byte(testdata.ChartJSON))
	if nil != err {
		t.Fatal(err)
	}
	if chart.Len() != 5 || chart.HoldCount() != 1 || chart.Lanes() != 2 {
		t.Fatalf("len %v holds %v lanes %v", chart.Len(), chart.HoldCount(), chart.Lanes())
	}
	// Loaded order is kept
	first := chart.Notes()[0]
	if first.Time != 2000*time.Millisecond || first.Lane != 1 {
		t.Fatalf("first note %+v", first)
	}
	hold := chart.Notes()[2]
	if !hold.IsHold() || hold.Duration != 500*time.Millisecond {
		t.Fatalf("hold note %+v", hold)
	}
	if chart.Notes()[4].IsHold() {
		t.Fatal("zero duration should be a tap")
	}
}

func TestParseBytesErrors(t *testing.T) {
	tests := []struct {
		doc   string
		index int
		field string
	}{
		{`{"notes": [}`, -1, "json"},
		{`[]`, -1, "json"},
		{`{}`, -1, "notes"},
		{`{"notes": {}}`, -1, "notes"},
		{`{"notes": [1]}`, 0, "note"},
		{`{"notes": [{"side": 0}]}`, 0, "time"},
		{`{"notes": [{"time": "1", "side": 0}]}`, 0, "time"},
		{`{"notes": [{"time": 1}]}`, 0, "side"},
		{`{"notes": [{"time": 1, "side": 0}, {"time": 1, "side": 0.5}]}`, 1, "side"},
		{`{"notes": [{"time": 1, "side": -1}]}`, 0, "side"},
		{`{"notes": [{"time": 1, "side": 0, "duration": -5}]}`, 0, "duration"},
		{`{"notes": [{"time": 1, "side": 0, "duration": "long"}]}`, 0, "duration"},
	}

	p := &DefaultParser{}
	for _, test := range tests {
		chart, err := p.ParseBytes("bad", []byte(test.doc))
		var fe *game.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("%v: expected a format error, got %v", test.doc, err)
		}
		if nil != chart {
			t.Log(test.doc, "returned a partial chart")
			t.Fail()
		}
		if fe.Index != test.index || fe.Field != test.field {
			t.Log(test.doc, "got", fe.Index, fe.Field, "expected", test.index, test.field)
			t.Fail()
		}
	}
}

func TestNullDurationIsTap(t *testing.T) {
	p := &DefaultParser{}
	chart, err := p.ParseBytes("song", []byte(`{"notes": [{"time": 10, "side": 1, "duration": null}]}`))
	if nil != err {
		t.Fatal(err)
	}
	if chart.HoldCount() != 0 || chart.TapCount() != 1 {
		t.Fatalf("holds %v taps %v", chart.HoldCount(), chart.TapCount())
	}
}

func TestParseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "level1")
	if err := os.Mkdir(dir, 0o755); nil != err {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "chart.json")
	if err := os.WriteFile(file, []byte(`{"notes": [{"time": 1}]}`), 0o644); nil != err {
		t.Fatal(err)
	}
	_, err := ForFile(file, 2).Parse(file)
	var fe *game.FormatError
	if !errors.As(err, &fe) || fe.Path != file {
		t.Fatalf("expected a format error for %v, got %v", file, err)
	}

	if err := os.WriteFile(file, []byte(testdata.ChartJSON), 0o644); nil != err {
		t.Fatal(err)
	}
	charts, err := ForFile(file, 2).Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 || charts[0].Name() != "level1" {
		t.Fatalf("charts %v", charts)
	}
}

func TestWriteReadsBack(t *testing.T) {
	chart := testdata.GetChart(
		testdata.Hold(1, 1500, 500),
		testdata.Tap(0, 1000),
	)
	var buf bytes.Buffer
	if err := Write(&buf, chart); nil != err {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"duration": 0`)) {
		t.Fatal("taps should not carry a duration")
	}

	p := &DefaultParser{}
	back, err := p.ParseBytes("song", buf.Bytes())
	if nil != err {
		t.Fatal(err)
	}
	if back.Hash() != chart.Hash() {
		t.Fatal("written chart differs")
	}
	// Written in time order
	if back.Notes()[0].Time != 1000*time.Millisecond {
		t.Fatalf("first note %+v", back.Notes()[0])
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testdata.GetChart()); nil != err {
		t.Fatal(err)
	}
	p := &DefaultParser{}
	chart, err := p.ParseBytes("empty", buf.Bytes())
	if nil != err || chart.Len() != 0 {
		t.Fatalf("%v %v", chart, err)
	}
}
