package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

const stepmania = `#TITLE:Test;
#OFFSET:0.000;
#BPMS:0.000=120.000;
#NOTES:
     pump-single:
     :
     Easy:
     1:
     0,0,0,0,0:
00000
;
#NOTES:
     dance-single:
     :
     Easy:
     1:
     0,0,0,0,0:
1000
0000
2M00
3000
,
0001
0000
0000
0000
;
`

func TestStepMania(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.sm")
	if err := os.WriteFile(file, []byte(stepmania), 0o644); nil != err {
		t.Fatal(err)
	}
	charts, err := ForFile(file, 2).Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 {
		t.Fatalf("expected only the dance-single chart, got %v", len(charts))
	}
	chart := charts[0]
	if chart.Name() != "Test (Easy)" || chart.Difficulty().Lanes != 4 || chart.Difficulty().Meter != "1" {
		t.Fatalf("name %v difficulty %+v", chart.Name(), chart.Difficulty())
	}

	expected := []game.Note{
		{Lane: 0, Time: 0},
		{Lane: 0, Time: time.Second, Duration: 500 * time.Millisecond},
		{Lane: 3, Time: 2 * time.Second},
	}
	notes := chart.SortedByTime()
	if len(notes) != len(expected) {
		t.Fatalf("notes %+v", notes)
	}
	for i := range expected {
		if notes[i] != expected[i] {
			t.Log(i, "got", notes[i], "expected", expected[i])
			t.Fail()
		}
	}
}

func TestStepManiaWithoutTempo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.sm")
	if err := os.WriteFile(file, []byte("#TITLE:x;\n#NOTES:\n"), 0o644); nil != err {
		t.Fatal(err)
	}
	if _, err := (&StepManiaParser{}).Parse(file); nil == err {
		t.Fatal("expected an error")
	}
}
