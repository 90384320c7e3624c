package main

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/twolane/internal/audio"
	"git.lost.host/meutraa/twolane/internal/charter"
	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/debug"
	"git.lost.host/meutraa/twolane/internal/engine"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/input"
	"git.lost.host/meutraa/twolane/internal/level"
	"git.lost.host/meutraa/twolane/internal/render"
	"git.lost.host/meutraa/twolane/internal/score"
	"git.lost.host/meutraa/twolane/internal/theme"
)

// Program is one play of a level: the song, the input source, the engine and
// the terminal.
type Program struct {
	Config   config.Config
	Level    *level.Level
	Scorer   score.Scorer
	Renderer render.Renderer
	Theme    theme.Theme

	chart  *game.Chart
	engine *engine.Engine
	player *audio.Player
	clock  audio.Clock
	source input.Source
	field  *render.Field

	// Every input of the play, for the history
	inputs []game.Input
}

func (p *Program) Init() error {
	var err error
	p.chart, err = p.Level.Chart()
	if nil != err {
		return err
	}
	if p.chart.Lanes() > p.Config.Lanes {
		return &game.ConfigurationError{
			Field:  "lanes",
			Reason: fmt.Sprintf("%v uses %v lanes", p.Level.Name, p.chart.Lanes()),
		}
	}
	p.engine, err = engine.New(p.chart, p.Config)
	if nil != err {
		return err
	}

	p.player, err = audio.Open(p.Level.Audio, p.Config.Volume)
	if nil != err {
		return err
	}
	p.clock = p.player

	p.source, err = openSource(p.Config)
	if nil != err {
		p.player.Close()
		return err
	}

	p.field = render.NewField(p.Renderer, p.Theme, p.Config, p.chart)
	p.inputs = []game.Input{}
	return nil
}

func (p *Program) Deinit() {
	if err := p.source.Close(); nil != err {
		log.Println("unable to close input", err)
	}
	if err := p.player.Close(); nil != err {
		log.Println("unable to close audio", err)
	}
}

func openSource(cfg config.Config) (input.Source, error) {
	if cfg.EventDevice != "" {
		return input.OpenEvdev(cfg.EventDevice, cfg.Keys)
	}
	return input.OpenKeyboard(cfg.Keys)
}

func quit(s input.Source) bool {
	q, ok := s.(input.Quitter)
	return ok && q.Quit()
}

// now is the song time the engine is driven with.
func (p *Program) now() time.Duration {
	return p.clock.Now() + p.Config.Offset
}

// Run plays the level to the end, shows the results and saves the history
// of a completed play.
func (p *Program) Run() error {
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer p.Renderer.Deinit()

	p.player.Start(p.Config.Delay)

	completedAt := time.Duration(-1)
	p.Renderer.RenderLoop(p.Config.FramePeriod(), func() bool {
		// One clock sample per frame
		now := p.now()
		inputs := p.source.Poll(now)
		p.inputs = append(p.inputs, inputs...)

		frame := p.engine.Step(now, inputs)
		for _, j := range frame.Judgements {
			debug.Log("judge", "%v lane %v at %v error %v", j.Label, j.Lane, j.Time, j.Error)
		}
		debug.LogEvery(p.Config.FrameRate, "frame", "now %v live %v score %v", now, len(frame.Sprites), frame.Tally.Score)

		last, ok := p.engine.Last()
		p.field.Draw(frame, last, ok)

		if frame.Completed {
			completedAt = now
		}
		if quit(p.source) {
			return false
		}
		return completedAt < 0 || now-completedAt < p.Config.ResultDelay
	})

	if !p.engine.IsComplete() {
		return nil
	}

	tally := p.engine.Tally()
	best := tally.Score
	if history, err := p.Scorer.Load(p.chart); nil == err {
		for _, h := range history {
			if h.Score > best {
				best = h.Score
			}
		}
	} else {
		log.Println("unable to load history", err)
	}
	if err := p.Scorer.Save(p.chart, p.inputs, tally); nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}

	p.field.DrawResults(tally, best)
	p.Renderer.Flush()
	for !quit(p.source) {
		p.source.Poll(p.now())
		time.Sleep(p.Config.FramePeriod())
	}
	return nil
}

// Record plays the song of the level and turns the presses into its chart.
func (p *Program) Record() (*game.Chart, error) {
	player, err := audio.Open(p.Level.Audio, p.Config.Volume)
	if nil != err {
		return nil, err
	}
	defer player.Close()
	source, err := openSource(p.Config)
	if nil != err {
		return nil, err
	}
	defer source.Close()

	if err := p.Renderer.Init(); nil != err {
		return nil, err
	}
	defer p.Renderer.Deinit()

	recorder := charter.NewRecorder(p.Config.Lanes)
	length := player.Length()
	player.Start(p.Config.Delay)

	var now time.Duration
	p.Renderer.RenderLoop(p.Config.FramePeriod(), func() bool {
		now = player.Now() + p.Config.Offset
		for _, in := range source.Poll(now) {
			recorder.Add(in)
		}
		p.Renderer.Fill(2, 2, p.Theme.RenderTitle("Recording "+p.Level.Name))
		p.Renderer.Fill(4, 2, p.Theme.RenderStat("Time", fmt.Sprintf("%6.1fs / %.1fs", now.Seconds(), length.Seconds())))
		p.Renderer.Fill(5, 2, p.Theme.RenderStat("Notes", fmt.Sprintf("%6v", recorder.Len())))
		return !quit(source) && now < length
	})
	recorder.Finish(now)

	chart := recorder.Chart(p.Level.Name)
	if err := p.Level.SaveChart(chart); nil != err {
		return nil, err
	}
	if length != p.Level.Length {
		if err := p.Level.SetLength(length); nil != err {
			return nil, err
		}
	}
	return chart, nil
}
