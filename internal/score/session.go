package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/judge"
)

// Progress is the part of the scheduler completion depends on.
type Progress interface {
	Spawned() bool
	Live() int
}

type Tally struct {
	Score       int
	MaxPossible int
	HoldBonus   int
	Completed   bool
	Counts      [len(game.Labels)]int // Indexed by label
	Combo       int
	MaxCombo    int

	// Timing error of presses that landed a hit
	Hits  int
	Mean  time.Duration
	Stdev time.Duration
}

func (t Tally) Accuracy() float64 {
	if t.MaxPossible == 0 {
		return 0
	}
	return float64(t.Score) / float64(t.MaxPossible) * 100
}

// Session accumulates the score of one play of a chart.
type Session struct {
	tally   Tally
	last    game.Judgement
	hasLast bool
	mean    float64
	m2      float64
}

// MaxPossible is the score of a perfect play: every head Perfect and every
// hold held for its whole duration.
func MaxPossible(chart *game.Chart, cfg config.Config) int {
	total := 0
	for _, n := range chart.Notes() {
		total += game.MaxPoints
		if n.IsHold() {
			total += judge.HoldValue(cfg, n.Duration)
		}
	}
	return total
}

func NewSession(chart *game.Chart, cfg config.Config) *Session {
	return &Session{tally: Tally{MaxPossible: MaxPossible(chart, cfg)}}
}

// Record adds a judgement to the running score.
func (s *Session) Record(j game.Judgement) {
	s.tally.Score += j.Points
	s.tally.Counts[j.Label]++
	s.last = j
	s.hasLast = true

	if j.Label == game.Miss {
		s.tally.Combo = 0
		return
	}
	s.tally.Combo++
	if s.tally.Combo > s.tally.MaxCombo {
		s.tally.MaxCombo = s.tally.Combo
	}

	// Welford's running variance
	s.tally.Hits++
	x := float64(j.Error)
	delta := x - s.mean
	s.mean += delta / float64(s.tally.Hits)
	s.m2 += delta * (x - s.mean)
	s.tally.Mean = time.Duration(math.Round(s.mean))
	if s.tally.Hits > 1 {
		s.tally.Stdev = time.Duration(math.Round(math.Sqrt(s.m2 / float64(s.tally.Hits-1))))
	}
}

func (s *Session) AddHoldBonus(points int) {
	s.tally.Score += points
	s.tally.HoldBonus += points
}

// Last returns the most recent judgement, for transient display.
func (s *Session) Last() (game.Judgement, bool) {
	return s.last, s.hasLast
}

// Complete reports true once, on the first call where every note has been
// spawned and none are live.
func (s *Session) Complete(p Progress) bool {
	if s.tally.Completed {
		return false
	}
	if p.Spawned() && p.Live() == 0 {
		s.tally.Completed = true
		return true
	}
	return false
}

// IsComplete is like Complete but keeps returning true afterwards.
func (s *Session) IsComplete(p Progress) bool {
	s.Complete(p)
	return s.tally.Completed
}

func (s *Session) Score() int {
	return s.tally.Score
}

func (s *Session) Accuracy() float64 {
	return s.tally.Accuracy()
}

func (s *Session) Tally() Tally {
	return s.tally
}
