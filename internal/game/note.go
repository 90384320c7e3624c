package game

import (
	"time"
)

// HoldThreshold is the shortest press that is recorded or imported as a hold.
const HoldThreshold = 250 * time.Millisecond

type Note struct {
	Lane     uint8         // The lane the note travels down
	Time     time.Duration // When the head should reach the hit-line
	Duration time.Duration // Zero for a tap, the hold length otherwise
}

func (n Note) IsHold() bool {
	return n.Duration > 0
}

// End is the time the tail of a hold reaches the hit-line. For taps it is Time.
func (n Note) End() time.Duration {
	return n.Time + n.Duration
}

type State uint8

const (
	Traveling State = iota
	Holding
	Resolved
)

func (s State) String() string {
	switch s {
	case Traveling:
		return "traveling"
	case Holding:
		return "holding"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// LiveNote is the runtime state of a spawned note. It is owned by the
// scheduler and only handed out for the duration of a frame.
type LiveNote struct {
	Note

	Spawn    time.Duration // Time - lead time
	State    State
	Label    Label         // Head judgement, Miss until hit
	LockedAt time.Duration // When a hold head was hit

	// Hold bookkeeping
	Held     time.Duration // Pressed time inside [Time, End]
	Quanta   int64         // Hold bonus quanta already awarded
	sampling bool
	sampled  time.Duration
}

func NewLiveNote(n Note, lead time.Duration) *LiveNote {
	return &LiveNote{
		Note:  n,
		Spawn: n.Time - lead,
		State: Traveling,
		Label: Miss,
	}
}

// Resolve moves the note to its terminal state. It never leaves it.
func (n *LiveNote) Resolve(label Label) {
	if n.State == Resolved {
		return
	}
	n.State = Resolved
	n.Label = label
	n.sampling = false
}

// Lock marks a hold head as hit and starts the holding phase.
func (n *LiveNote) Lock(label Label, now time.Duration) {
	n.State = Holding
	n.Label = label
	n.LockedAt = now
}

// Sample adds the pressed time since the previous sample, clipped to the
// hold window, and returns the total.
func (n *LiveNote) Sample(now time.Duration) time.Duration {
	if n.sampling {
		from, to := n.sampled, now
		if from < n.Time {
			from = n.Time
		}
		if end := n.End(); to > end {
			to = end
		}
		if to > from {
			n.Held += to - from
		}
	}
	n.sampling = true
	n.sampled = now
	return n.Held
}

// StopSampling is called when the lane is released.
func (n *LiveNote) StopSampling() {
	n.sampling = false
}

func (n *LiveNote) Sampling() bool {
	return n.sampling
}
