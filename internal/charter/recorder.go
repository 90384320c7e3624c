package charter

import (
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

// Recorder turns lane presses made along with a song into a chart. A press
// held for at least game.HoldThreshold becomes a hold of that length.
type Recorder struct {
	lanes int
	down  []bool
	open  []time.Duration // Press time of each lane that is down
	notes []game.Note
}

func NewRecorder(lanes int) *Recorder {
	r := &Recorder{lanes: lanes}
	r.Reset()
	return r
}

func (r *Recorder) Reset() {
	r.down = make([]bool, r.lanes)
	r.open = make([]time.Duration, r.lanes)
	r.notes = nil
}

// Add records one input. Inputs for unknown lanes and releases without a
// press are dropped.
func (r *Recorder) Add(in game.Input) {
	if int(in.Lane) >= r.lanes {
		log.Println("recorder: ignoring input for lane", in.Lane)
		return
	}
	if in.Pressed {
		if !r.down[in.Lane] {
			r.down[in.Lane] = true
			r.open[in.Lane] = in.Time
		}
		return
	}
	if !r.down[in.Lane] {
		return
	}
	r.down[in.Lane] = false
	start := r.open[in.Lane]
	n := game.Note{Lane: in.Lane, Time: start}
	if d := in.Time - start; d >= game.HoldThreshold {
		n.Duration = d
	}
	r.notes = append(r.notes, n)
}

// Finish releases every lane still held at now.
func (r *Recorder) Finish(now time.Duration) {
	for lane, down := range r.down {
		if down {
			r.Add(game.Input{Lane: uint8(lane), Time: now})
		}
	}
}

func (r *Recorder) Len() int {
	return len(r.notes)
}

// Chart returns the recorded notes in time order.
func (r *Recorder) Chart(name string) *game.Chart {
	notes := make([]game.Note, len(r.notes))
	copy(notes, r.notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return game.NewChart(name, notes)
}
