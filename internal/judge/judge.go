package judge

import (
	"math"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/game"
)

// Track positions live notes relative to the hit-line.
type Track interface {
	OffsetFromHitLine(n *game.LiveNote, now time.Duration) float64
}

type Judge struct {
	cfg   config.Config
	track Track
}

func New(cfg config.Config, track Track) *Judge {
	return &Judge{cfg: cfg, track: track}
}

// Closest returns the traveling note of notes nearest to the hit-line and
// its signed offset. notes must be in time order; on equal distance the
// earlier note wins.
func (j *Judge) Closest(notes []*game.LiveNote, now time.Duration) (*game.LiveNote, float64) {
	var closest *game.LiveNote
	best := math.Inf(1)
	offset := 0.0
	for _, n := range notes {
		if n.State != game.Traveling {
			continue
		}
		o := j.track.OffsetFromHitLine(n, now)
		d := math.Abs(o)
		if d < best {
			best = d
			offset = o
			closest = n
		} else if nil != closest && d > best {
			// Later notes are only further away
			break
		}
	}
	return closest, offset
}

// Press judges a press of lane at now against the live notes of that lane.
// It returns false when no note is within reach, which is not a penalty.
func (j *Judge) Press(lane uint8, now time.Duration, notes []*game.LiveNote) (game.Judgement, bool) {
	n, offset := j.Closest(notes, now)
	distance := math.Abs(offset)
	if nil == n || distance >= j.cfg.HitDistance {
		return game.Judgement{}, false
	}

	points, label := game.Grade(distance)
	if n.IsHold() {
		n.Lock(label, now)
	} else {
		n.Resolve(label)
	}
	return game.Judgement{
		Points: points,
		Label:  label,
		Time:   now,
		Lane:   lane,
		Offset: offset,
		Error:  now - n.Time,
	}, true
}

// Hold is called every frame lane is pressed. It accumulates pressed time on
// the holding notes of the lane and returns the bonus earned since the last
// call.
func (j *Judge) Hold(lane uint8, now time.Duration, notes []*game.LiveNote) int {
	points := 0
	for _, n := range notes {
		if n.State != game.Holding {
			continue
		}
		points += j.award(n, n.Sample(now))
	}
	return points
}

// Release counts the lane as held up to now, then stops hold accumulation
// until it is pressed again. Points already awarded are kept.
func (j *Judge) Release(lane uint8, now time.Duration, notes []*game.LiveNote) int {
	points := 0
	for _, n := range notes {
		if n.State != game.Holding || !n.Sampling() {
			continue
		}
		points += j.award(n, n.Sample(now))
		n.StopSampling()
	}
	return points
}

func (j *Judge) award(n *game.LiveNote, held time.Duration) int {
	quanta := j.cfg.HoldFrames(held) / int64(j.cfg.HoldQuantumFrames)
	if quanta <= n.Quanta {
		return 0
	}
	points := int(quanta-n.Quanta) * j.cfg.HoldBonus
	n.Quanta = quanta
	return points
}

// HoldValue is the bonus a hold of duration d earns when held throughout.
func HoldValue(cfg config.Config, d time.Duration) int {
	return int(cfg.HoldFrames(d)/int64(cfg.HoldQuantumFrames)) * cfg.HoldBonus
}
