package game

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"sort"
)

// Chart is an immutable list of notes for one song. Build it with NewChart.
type Chart struct {
	name       string
	notes      []Note
	sorted     []Note
	difficulty Difficulty
	holdCount  int
	lanes      int
}

func NewChart(name string, notes []Note) *Chart {
	return NewChartWithDifficulty(name, notes, Difficulty{})
}

func NewChartWithDifficulty(name string, notes []Note, difficulty Difficulty) *Chart {
	c := &Chart{
		name:       name,
		notes:      make([]Note, len(notes)),
		sorted:     make([]Note, len(notes)),
		difficulty: difficulty,
	}
	copy(c.notes, notes)
	copy(c.sorted, notes)
	sort.SliceStable(c.sorted, func(i, j int) bool {
		return c.sorted[i].Time < c.sorted[j].Time
	})
	for _, n := range c.notes {
		if n.IsHold() {
			c.holdCount++
		}
		if int(n.Lane) >= c.lanes {
			c.lanes = int(n.Lane) + 1
		}
	}
	return c
}

func (c *Chart) Name() string {
	return c.name
}

func (c *Chart) Difficulty() Difficulty {
	return c.difficulty
}

// Notes returns a copy of the notes in the order they were loaded.
func (c *Chart) Notes() []Note {
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// SortedByTime returns a copy of the notes ascending by Time. Notes with the
// same time keep their loaded order.
func (c *Chart) SortedByTime() []Note {
	out := make([]Note, len(c.sorted))
	copy(out, c.sorted)
	return out
}

func (c *Chart) Len() int {
	return len(c.notes)
}

// Lanes is the highest lane used plus one.
func (c *Chart) Lanes() int {
	return c.lanes
}

func (c *Chart) HoldCount() int {
	return c.holdCount
}

func (c *Chart) TapCount() int {
	return len(c.notes) - c.holdCount
}

// Hash identifies the playable content of the chart, ignoring its name and
// the order notes were stored in.
func (c *Chart) Hash() string {
	h := sha256.New()
	buf := make([]byte, 17)
	for _, n := range c.sorted {
		buf[0] = n.Lane
		binary.LittleEndian.PutUint64(buf[1:], uint64(n.Time))
		binary.LittleEndian.PutUint64(buf[9:], uint64(n.Duration))
		h.Write(buf)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
