package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/twolane/internal/config"
	"git.lost.host/meutraa/twolane/internal/debug"
	"git.lost.host/meutraa/twolane/internal/engine"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/level"
	"git.lost.host/meutraa/twolane/internal/parser"
	"git.lost.host/meutraa/twolane/internal/render"
	"git.lost.host/meutraa/twolane/internal/score"
	"git.lost.host/meutraa/twolane/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg := config.Default()
	dir, err := config.Dir()
	if nil != err {
		return err
	}
	settings := filepath.Join(dir, "config.json")
	// The settings file provides the flag defaults
	if err := config.Load(settings, &cfg); nil != err {
		return err
	}

	app := kingpin.New("twolane", "A lane rhythm game for the terminal.")
	config.Register(app, &cfg)

	play := app.Command("play", "Play a level.").Default()
	playLevel := play.Arg("level", "Level folder, or the number of a level from the levels command.").String()

	levels := app.Command("levels", "List the levels in the songs directory.")

	create := app.Command("new", "Create a level from a song.")
	createSong := create.Arg("song", "An mp3, ogg or wav file.").Required().ExistingFile()
	createName := create.Flag("name", "Level name.").String()
	createDifficulty := create.Flag("difficulty", "Difficulty shown in the level list.").Default("Normal").String()

	record := app.Command("record", "Record the chart of a level by playing along to its song.")
	recordLevel := record.Arg("level", "Level folder or number.").Required().String()
	recordDifficulty := record.Flag("difficulty", "Difficulty label to store with the recorded chart.").String()

	imp := app.Command("import", "Convert a StepMania or MIDI file into a chart.")
	impFile := imp.Arg("file", "A .sm, .mid or chart.json file.").Required().ExistingFile()
	impOut := imp.Arg("out", "Level folder or chart file to write.").Required().String()
	impIndex := imp.Flag("chart", "Which chart of the file to import.").Default("0").Int()

	history := app.Command("history", "Show the scores of a level, rescored with the current settings.")
	historyLevel := history.Arg("level", "Level folder or number.").Required().String()

	save := app.Command("save-config", "Write the current settings to "+settings+".")

	command, err := app.Parse(args)
	if nil != err {
		return err
	}
	if err := cfg.Validate(); nil != err {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(filepath.Join(dir, "debug.log")); nil != err {
			return err
		}
		defer debug.Disable()
	}

	switch command {
	case play.FullCommand():
		return runPlay(cfg, *playLevel)
	case levels.FullCommand():
		return runLevels(cfg)
	case create.FullCommand():
		name := *createName
		if name == "" {
			name = filepath.Base(*createSong)
		}
		l, err := level.Create(cfg.SongsDir, *createSong, name, *createDifficulty)
		if nil != err {
			return err
		}
		fmt.Println("Created", l.Dir)
		return nil
	case record.FullCommand():
		return runRecord(cfg, *recordLevel, *recordDifficulty)
	case imp.FullCommand():
		return runImport(cfg, *impFile, *impOut, *impIndex)
	case history.FullCommand():
		return runHistory(cfg, *historyLevel)
	case save.FullCommand():
		return cfg.Save(settings)
	}
	return nil
}

// findLevel resolves a folder path or an index into the level list.
func findLevel(cfg config.Config, arg string) (*level.Level, error) {
	if info, err := os.Stat(arg); nil == err && info.IsDir() {
		return level.Load(arg)
	}
	levels, err := level.Scan(cfg.SongsDir)
	if nil != err {
		return nil, err
	}
	var index int
	if _, err := fmt.Sscan(arg, &index); nil != err || index < 1 || index > len(levels) {
		return nil, fmt.Errorf("no level %q in %v", arg, cfg.SongsDir)
	}
	return levels[index-1], nil
}

func runLevels(cfg config.Config) error {
	levels, err := level.Scan(cfg.SongsDir)
	if nil != err {
		return err
	}
	if len(levels) == 0 {
		fmt.Println("No levels in", cfg.SongsDir, "yet, create one with the new command")
		return nil
	}
	for i, l := range levels {
		fmt.Printf("%2v) %-30v %-10v %6.1fs  %v\n", i+1, l.Name, l.Difficulty, l.Length.Seconds(), l.Dir)
	}
	return nil
}

func runPlay(cfg config.Config, arg string) error {
	if arg == "" {
		return runLevels(cfg)
	}
	l, err := findLevel(cfg, arg)
	if nil != err {
		return err
	}
	store, err := score.Open(cfg.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	p := &Program{
		Config:   cfg,
		Level:    l,
		Scorer:   store,
		Renderer: render.NewDefaultRenderer(),
		Theme:    theme.New(),
	}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()
	return p.Run()
}

func runRecord(cfg config.Config, arg, difficulty string) error {
	l, err := findLevel(cfg, arg)
	if nil != err {
		return err
	}
	if difficulty != "" {
		if err := l.SetDifficulty(difficulty); nil != err {
			return err
		}
	}
	p := &Program{
		Config:   cfg,
		Level:    l,
		Renderer: render.NewDefaultRenderer(),
		Theme:    theme.New(),
	}
	chart, err := p.Record()
	if nil != err {
		return err
	}
	fmt.Printf("Recorded %v notes (%v holds) into %v\n", chart.Len(), chart.HoldCount(), l.ChartPath())
	return nil
}

func runImport(cfg config.Config, file, out string, index int) error {
	charts, err := parser.ForFile(file, uint8(cfg.Lanes)).Parse(file)
	if nil != err {
		return err
	}
	if index < 0 || index >= len(charts) {
		return fmt.Errorf("%v has %v charts", file, len(charts))
	}
	chart := fold(charts[index], cfg.Lanes)

	if l, err := level.Load(out); nil == err {
		if err := l.SaveChart(chart); nil != err {
			return err
		}
	} else {
		f, err := os.Create(out)
		if nil != err {
			return err
		}
		if err := parser.Write(f, chart); nil != err {
			f.Close()
			return err
		}
		if err := f.Close(); nil != err {
			return err
		}
	}
	fmt.Printf("Imported %v notes (%v holds)\n", chart.Len(), chart.HoldCount())
	return nil
}

// fold maps a chart with more lanes than configured onto the configured
// lanes.
func fold(chart *game.Chart, lanes int) *game.Chart {
	if chart.Lanes() <= lanes {
		return chart
	}
	log.Printf("folding %v lanes onto %v\n", chart.Lanes(), lanes)
	notes := chart.Notes()
	for i := range notes {
		notes[i].Lane %= uint8(lanes)
	}
	return game.NewChartWithDifficulty(chart.Name(), notes, chart.Difficulty())
}

func runHistory(cfg config.Config, arg string) error {
	l, err := findLevel(cfg, arg)
	if nil != err {
		return err
	}
	chart, err := l.Chart()
	if nil != err {
		return err
	}
	store, err := score.Open(cfg.Database)
	if nil != err {
		return err
	}
	defer store.Close()

	history, err := store.Load(chart)
	if nil != err {
		return err
	}
	if len(history) == 0 {
		fmt.Println("No plays of", l.Name, "yet")
		return nil
	}
	for _, h := range history {
		tally, err := engine.Replay(chart, cfg, h.Inputs)
		var ce *game.ConfigurationError
		if errors.As(err, &ce) {
			return err
		} else if nil != err {
			log.Println("unable to rescore play", h.ID, err)
			continue
		}
		fmt.Printf("%v  %6v / %-6v  rescored %6v  %6.2f%%\n",
			h.Played.Format("2006-01-02 15:04"), h.Score, h.MaxPossible, tally.Score, tally.Accuracy())
	}
	return nil
}
