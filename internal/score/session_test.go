package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/testdata"
)

type progress struct {
	spawned bool
	live    int
}

func (p *progress) Spawned() bool { return p.spawned }
func (p *progress) Live() int     { return p.live }

func TestMaxPossible(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		Notes    []game.Note
		Expected int
	}{
		{nil, 0},
		{[]game.Note{testdata.Tap(0, 1000)}, 100},
		// 500ms at 60fps is 30 frames, 15 quanta of 5 points
		{[]game.Note{testdata.Hold(0, 1000, 500)}, 175},
		// 250ms is 15 frames, 7 quanta
		{[]game.Note{testdata.Tap(1, 0), testdata.Hold(0, 1000, 250)}, 235},
		// Too short for a single quantum
		{[]game.Note{testdata.Hold(0, 1000, 20)}, 100},
	}
	for _, test := range tests {
		got := MaxPossible(testdata.GetChart(test.Notes...), cfg)
		if got != test.Expected {
			t.Errorf("MaxPossible(%v) = %v, want %v", test.Notes, got, test.Expected)
		}
	}
}

func TestRecord(t *testing.T) {
	s := NewSession(testdata.GetChart(testdata.Tap(0, 1000), testdata.Tap(0, 2000), testdata.Hold(1, 3000, 500)), config.Default())
	if s.Tally().MaxPossible != 375 {
		t.Fatalf("max possible = %v", s.Tally().MaxPossible)
	}
	if _, ok := s.Last(); ok {
		t.Fatal("new session has a last judgement")
	}

	s.Record(game.Judgement{Points: 100, Label: game.Perfect, Error: 10 * time.Millisecond})
	s.Record(game.Judgement{Points: 70, Label: game.Good, Error: -30 * time.Millisecond})
	s.AddHoldBonus(5)
	s.Record(game.Judgement{Label: game.Miss, Time: 5 * time.Second})

	tally := s.Tally()
	if tally.Score != 175 || s.Score() != 175 || tally.HoldBonus != 5 {
		t.Fatalf("score %v bonus %v", tally.Score, tally.HoldBonus)
	}
	if tally.Counts[game.Perfect] != 1 || tally.Counts[game.Good] != 1 || tally.Counts[game.Miss] != 1 {
		t.Fatalf("counts %v", tally.Counts)
	}
	if tally.Combo != 0 || tally.MaxCombo != 2 {
		t.Fatalf("combo %v max %v", tally.Combo, tally.MaxCombo)
	}
	if tally.Hits != 2 || tally.Mean != -10*time.Millisecond {
		t.Fatalf("hits %v mean %v", tally.Hits, tally.Mean)
	}
	// Sample deviation of +10ms and -30ms
	if want := time.Duration(28284271); tally.Stdev != want {
		t.Fatalf("stdev %v, want %v", tally.Stdev, want)
	}
	last, ok := s.Last()
	if !ok || last.Label != game.Miss {
		t.Fatalf("last %+v", last)
	}
	if acc := s.Accuracy(); acc != float64(175)/375*100 {
		t.Fatalf("accuracy %v", acc)
	}
}

func TestAccuracyWithoutNotes(t *testing.T) {
	s := NewSession(testdata.GetChart(), config.Default())
	if s.Accuracy() != 0 {
		t.Fatal("accuracy of an empty chart should be 0")
	}
}

func TestComplete(t *testing.T) {
	s := NewSession(testdata.GetChart(testdata.Tap(0, 1000)), config.Default())
	p := &progress{spawned: false, live: 0}

	if s.Complete(p) || s.IsComplete(p) {
		t.Fatal("complete before every note spawned")
	}
	p.spawned, p.live = true, 1
	if s.IsComplete(p) {
		t.Fatal("complete with a live note")
	}
	p.live = 0
	if !s.Complete(p) {
		t.Fatal("completion not reported")
	}
	if s.Complete(p) {
		t.Fatal("completion reported twice")
	}
	// Never reverts
	p.live = 3
	if !s.IsComplete(p) || !s.Tally().Completed {
		t.Fatal("completion reverted")
	}
}
