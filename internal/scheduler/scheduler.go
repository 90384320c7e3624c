package scheduler

import (
	"fmt"
	"strconv"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/game"
)

// Sprite is what the shell needs to draw one live note.
type Sprite struct {
	Lane       uint8
	Offset     float64 // Distance travelled from the spawn point
	Holding    bool
	TailLength float64 // Zero for taps
}

// Scheduler spawns notes ahead of their time, moves them and retires the
// ones that can no longer be hit. It owns every LiveNote.
type Scheduler struct {
	cfg   config.Config
	lead  time.Duration
	notes []game.Note // Sorted by time

	next  int                // First unspawned note
	lanes [][]*game.LiveNote // Live notes per lane, in time order
	live  int
	now   time.Duration
}

func New(chart *game.Chart, cfg config.Config) (*Scheduler, error) {
	if err := cfg.Validate(); nil != err {
		return nil, err
	}
	if chart.Lanes() > cfg.Lanes {
		return nil, &game.ConfigurationError{
			Field:  "lanes",
			Reason: fmt.Sprintf("chart uses %v lanes but only %v are configured", chart.Lanes(), cfg.Lanes),
		}
	}
	s := &Scheduler{
		cfg:   cfg,
		lead:  cfg.LeadTime(),
		notes: chart.SortedByTime(),
	}
	s.Reset()
	return s, nil
}

// Reset discards every live note and rewinds to the start of the chart.
func (s *Scheduler) Reset() {
	s.next = 0
	s.live = 0
	s.now = 0
	s.lanes = make([][]*game.LiveNote, s.cfg.Lanes)
}

func (s *Scheduler) LeadTime() time.Duration {
	return s.lead
}

func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Progress is how far along its path a note is at now. It passes 1 at the
// hit-line and keeps growing afterwards.
func (s *Scheduler) Progress(n *game.LiveNote, now time.Duration) float64 {
	return float64(now-n.Spawn) / float64(s.lead)
}

// OffsetFromSpawn is the distance travelled by the head of n at now.
func (s *Scheduler) OffsetFromSpawn(n *game.LiveNote, now time.Duration) float64 {
	return s.Progress(n, now) * s.cfg.TravelDistance
}

// OffsetFromHitLine is negative while the head approaches the hit-line and
// positive once it has passed it.
func (s *Scheduler) OffsetFromHitLine(n *game.LiveNote, now time.Duration) float64 {
	return float64(now-n.Time) / float64(s.lead) * s.cfg.TravelDistance
}

// TailLength is the drawn length of a hold note's body.
func (s *Scheduler) TailLength(n *game.LiveNote) float64 {
	return float64(n.Duration) / float64(s.lead) * s.cfg.TravelDistance
}

// Advance moves the clock to now, spawning every note whose lead time has
// been reached and resolving every note that can no longer be hit. It
// returns the misses resolved by this call. Calling it again with the same
// now does nothing.
func (s *Scheduler) Advance(now time.Duration) []game.Judgement {
	if now > s.now {
		s.now = now
	}

	for ; s.next < len(s.notes); s.next++ {
		note := s.notes[s.next]
		if note.Time-s.lead > now {
			break
		}
		s.lanes[note.Lane] = append(s.lanes[note.Lane], game.NewLiveNote(note, s.lead))
		s.live++
	}

	var misses []game.Judgement
	for lane, notes := range s.lanes {
		for _, n := range notes {
			switch n.State {
			case game.Traveling:
				offset := s.OffsetFromHitLine(n, now)
				if now > n.Time+s.cfg.Grace && offset > s.cfg.NoteExtent {
					n.Resolve(game.Miss)
					misses = append(misses, game.Judgement{
						Label:  game.Miss,
						Time:   now,
						Lane:   uint8(lane),
						Offset: offset,
					})
				}
			case game.Holding:
				if now > n.End()+s.lead+s.cfg.Grace {
					n.Resolve(n.Label)
				}
			}
		}
	}
	s.Retire()
	return misses
}

// Retire drops resolved notes from the live set.
func (s *Scheduler) Retire() {
	for lane, notes := range s.lanes {
		kept := notes[:0]
		for _, n := range notes {
			if n.State == game.Resolved {
				s.live--
				continue
			}
			kept = append(kept, n)
		}
		for i := len(kept); i < len(notes); i++ {
			notes[i] = nil
		}
		s.lanes[lane] = kept
	}
}

func (s *Scheduler) checkLane(lane uint8) {
	if int(lane) >= len(s.lanes) {
		panic("scheduler: lane " + strconv.Itoa(int(lane)) + " out of range")
	}
}

// Lane returns the live notes of lane in time order. The slice is only valid
// until the next call to Advance or Retire.
func (s *Scheduler) Lane(lane uint8) []*game.LiveNote {
	s.checkLane(lane)
	return s.lanes[lane]
}

func (s *Scheduler) Lanes() int {
	return len(s.lanes)
}

// Sprites lists every live note at the current clock, lane by lane.
func (s *Scheduler) Sprites() []Sprite {
	sprites := make([]Sprite, 0, s.live)
	for lane, notes := range s.lanes {
		for _, n := range notes {
			sprites = append(sprites, Sprite{
				Lane:       uint8(lane),
				Offset:     s.OffsetFromSpawn(n, s.now),
				Holding:    n.State == game.Holding,
				TailLength: s.TailLength(n),
			})
		}
	}
	return sprites
}

// Spawned reports whether every chart note has been spawned.
func (s *Scheduler) Spawned() bool {
	return s.next >= len(s.notes)
}

// Live is the number of notes in the live set.
func (s *Scheduler) Live() int {
	return s.live
}

// Remaining is the number of notes not spawned yet.
func (s *Scheduler) Remaining() int {
	return len(s.notes) - s.next
}
