package engine

import (
	"strconv"
	"time"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/judge"
	"git.lost.host/meutraa/twolane/internal/scheduler"
	"git.lost.host/meutraa/twolane/internal/score"
)

// Frame is everything the shell needs after one step.
type Frame struct {
	Now        time.Duration
	Sprites    []scheduler.Sprite
	Judgements []game.Judgement // Misses and hits of this frame, in order
	HoldPoints int
	Pressed    []bool
	Tally      score.Tally
	Completed  bool // Only set on the frame the chart completed
}

// Engine runs one session of a chart. It is not safe for concurrent use;
// the frame loop is expected to own it.
type Engine struct {
	chart     *game.Chart
	cfg       config.Config
	scheduler *scheduler.Scheduler
	judge     *judge.Judge
	session   *score.Session
	pressed   []bool
}

func New(chart *game.Chart, cfg config.Config) (*Engine, error) {
	s, err := scheduler.New(chart, cfg)
	if nil != err {
		return nil, err
	}
	e := &Engine{
		chart:     chart,
		cfg:       cfg,
		scheduler: s,
		judge:     judge.New(cfg, s),
	}
	e.Reset()
	return e, nil
}

// Reset starts the session over from the beginning of the chart.
func (e *Engine) Reset() {
	e.scheduler.Reset()
	e.session = score.NewSession(e.chart, e.cfg)
	e.pressed = make([]bool, e.cfg.Lanes)
}

func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.scheduler
}

// Step advances the session to now and applies the inputs of this frame.
// Every input is judged against the positions at now. It panics on an input
// for a lane that is not configured.
func (e *Engine) Step(now time.Duration, inputs []game.Input) Frame {
	frame := Frame{Now: now}

	for _, miss := range e.scheduler.Advance(now) {
		e.session.Record(miss)
		frame.Judgements = append(frame.Judgements, miss)
	}

	for _, in := range inputs {
		if int(in.Lane) >= len(e.pressed) {
			panic("engine: input for lane " + strconv.Itoa(int(in.Lane)) + " out of range")
		}
		notes := e.scheduler.Lane(in.Lane)
		if in.Pressed {
			if j, ok := e.judge.Press(in.Lane, now, notes); ok {
				e.session.Record(j)
				frame.Judgements = append(frame.Judgements, j)
			}
		} else if points := e.judge.Release(in.Lane, now, notes); points > 0 {
			e.session.AddHoldBonus(points)
			frame.HoldPoints += points
		}
		e.pressed[in.Lane] = in.Pressed
	}

	for lane, down := range e.pressed {
		if !down {
			continue
		}
		points := e.judge.Hold(uint8(lane), now, e.scheduler.Lane(uint8(lane)))
		if points > 0 {
			e.session.AddHoldBonus(points)
			frame.HoldPoints += points
		}
	}

	e.scheduler.Retire()
	frame.Completed = e.session.Complete(e.scheduler)
	frame.Sprites = e.scheduler.Sprites()
	frame.Pressed = append([]bool(nil), e.pressed...)
	frame.Tally = e.session.Tally()
	return frame
}

// Last returns the latest judgement for transient display.
func (e *Engine) Last() (game.Judgement, bool) {
	return e.session.Last()
}

func (e *Engine) Tally() score.Tally {
	return e.session.Tally()
}

func (e *Engine) IsComplete() bool {
	return e.session.IsComplete(e.scheduler)
}

// Replay plays back a recorded input timeline and returns the final tally.
// Every input is judged at its recorded time, as it was during play, with
// reference frames stepped in between. Inputs must be in time order.
func Replay(chart *game.Chart, cfg config.Config, inputs []game.Input) (score.Tally, error) {
	e, err := New(chart, cfg)
	if nil != err {
		return score.Tally{}, err
	}

	period := cfg.FramePeriod()
	end := e.scheduler.LeadTime()
	for _, n := range chart.Notes() {
		if t := n.End() + 2*e.scheduler.LeadTime() + cfg.Grace; t > end {
			end = t
		}
	}
	if len(inputs) > 0 && inputs[len(inputs)-1].Time > end {
		end = inputs[len(inputs)-1].Time
	}

	next := 0
	grid := time.Duration(0)
	for {
		now := grid
		if next < len(inputs) && inputs[next].Time < now {
			now = inputs[next].Time
		}
		if now > end {
			now = end
		}
		start := next
		for next < len(inputs) && inputs[next].Time <= now {
			next++
		}
		e.Step(now, inputs[start:next])
		for grid <= now {
			grid += period
		}
		if now == end || (e.IsComplete() && next == len(inputs)) {
			break
		}
	}
	return e.Tally(), nil
}
