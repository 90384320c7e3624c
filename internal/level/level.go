package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"git.lost.host/meutraa/twolane/internal/audio"
	"git.lost.host/meutraa/twolane/internal/game"
	"git.lost.host/meutraa/twolane/internal/parser"
)

const (
	MetaFile  = "level.json"
	ChartFile = "chart.json"
)

// Level is a song folder holding level.json, chart.json and the audio.
type Level struct {
	Dir        string
	Name       string
	Difficulty string
	Audio      string // Path of the song
	Length     time.Duration
}

func (l *Level) ChartPath() string {
	return filepath.Join(l.Dir, ChartFile)
}

func (l *Level) MetaPath() string {
	return filepath.Join(l.Dir, MetaFile)
}

// Chart loads the chart of the level.
func (l *Level) Chart() (*game.Chart, error) {
	charts, err := (&parser.DefaultParser{}).Parse(l.ChartPath())
	if nil != err {
		return nil, err
	}
	c := charts[0]
	return game.NewChartWithDifficulty(l.Name, c.Notes(), game.Difficulty{Name: l.Difficulty}), nil
}

// SaveChart replaces the chart of the level.
func (l *Level) SaveChart(chart *game.Chart) error {
	var buf bytes.Buffer
	if err := parser.Write(&buf, chart); nil != err {
		return err
	}
	return ioutil.WriteFile(l.ChartPath(), buf.Bytes(), 0644)
}

// SetLength stores the song length in level.json.
func (l *Level) SetLength(length time.Duration) error {
	if err := SetMeta(l.Dir, "length_ms", length.Milliseconds()); nil != err {
		return err
	}
	l.Length = length
	return nil
}

func (l *Level) SetDifficulty(difficulty string) error {
	if err := SetMeta(l.Dir, "difficulty", difficulty); nil != err {
		return err
	}
	l.Difficulty = difficulty
	return nil
}

// Load reads the level in dir. A level without a song is an error.
func Load(dir string) (*Level, error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, MetaFile))
	if nil != err {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(dir, ChartFile)); nil != err {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &game.FormatError{Path: filepath.Join(dir, MetaFile), Index: -1, Field: "json", Reason: "invalid document"}
	}

	meta := gjson.ParseBytes(data)
	l := &Level{
		Dir:        dir,
		Name:       meta.Get("name").String(),
		Difficulty: meta.Get("difficulty").String(),
		Length:     time.Duration(meta.Get("length_ms").Int()) * time.Millisecond,
	}
	if l.Name == "" {
		l.Name = filepath.Base(dir)
	}

	if a := meta.Get("audio").String(); a != "" {
		if _, err := os.Stat(filepath.Join(dir, a)); nil == err {
			l.Audio = filepath.Join(dir, a)
		}
	}
	if l.Audio == "" {
		l.Audio = findAudio(dir)
	}
	if l.Audio == "" {
		return nil, fmt.Errorf("no audio in %v", dir)
	}
	return l, nil
}

func findAudio(dir string) string {
	for _, ext := range audio.Extensions {
		found, _ := filepath.Glob(filepath.Join(dir, "*"+ext))
		if len(found) > 0 {
			sort.Strings(found)
			return found[0]
		}
	}
	return ""
}

// Scan returns the levels under dir sorted by folder name. Folders that are
// not complete levels are skipped.
func Scan(dir string) ([]*Level, error) {
	if err := os.MkdirAll(dir, 0755); nil != err {
		return nil, err
	}
	entries, err := ioutil.ReadDir(dir)
	if nil != err {
		return nil, err
	}

	levels := []*Level{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(dir, entry.Name())
		if !exists(filepath.Join(folder, MetaFile)) || !exists(filepath.Join(folder, ChartFile)) {
			continue
		}
		l, err := Load(folder)
		if nil != err {
			log.Println("unable to read level", folder, err)
			continue
		}
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		return filepath.Base(levels[i].Dir) < filepath.Base(levels[j].Dir)
	})
	return levels, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return nil == err
}

type meta struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
	Audio      string `json:"audio"`
	LengthMs   int64  `json:"length_ms"`
}

// Create makes the next free levelN folder in songsDir, copies the song into
// it and writes its metadata with an empty chart.
func Create(songsDir, song, name, difficulty string) (*Level, error) {
	if !audio.IsAudio(song) {
		return nil, fmt.Errorf("%v is not a supported audio file", song)
	}
	if err := os.MkdirAll(songsDir, 0755); nil != err {
		return nil, err
	}

	var dir string
	for n := 1; ; n++ {
		dir = filepath.Join(songsDir, "level"+strconv.Itoa(n))
		if err := os.Mkdir(dir, 0755); nil == err {
			break
		} else if !os.IsExist(err) {
			return nil, err
		}
	}

	l, err := populate(dir, song, name, difficulty)
	if nil != err {
		os.RemoveAll(dir)
		return nil, err
	}
	return l, nil
}

func populate(dir, song, name, difficulty string) (*Level, error) {
	dest := filepath.Join(dir, filepath.Base(song))
	if err := copyFile(song, dest); nil != err {
		return nil, fmt.Errorf("unable to copy song: %w", err)
	}

	length, err := audio.Length(dest)
	if nil != err {
		log.Println("unable to read song length", err)
		length = 0
	}

	data, err := json.MarshalIndent(meta{
		Name:       name,
		Difficulty: difficulty,
		Audio:      filepath.Base(song),
		LengthMs:   length.Milliseconds(),
	}, "", "  ")
	if nil != err {
		return nil, err
	}
	if err := ioutil.WriteFile(filepath.Join(dir, MetaFile), data, 0644); nil != err {
		return nil, err
	}

	l := &Level{
		Dir:        dir,
		Name:       name,
		Difficulty: difficulty,
		Audio:      dest,
		Length:     length,
	}
	if err := l.SaveChart(game.NewChart(name, nil)); nil != err {
		return nil, err
	}
	return l, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if nil != err {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if nil != err {
		return err
	}
	if _, err := io.Copy(out, in); nil != err {
		out.Close()
		return err
	}
	return out.Close()
}

// SetMeta sets one key of level.json in place, keeping the rest of the
// document as it is.
func SetMeta(dir, key string, value interface{}) error {
	path := filepath.Join(dir, MetaFile)
	data, err := ioutil.ReadFile(path)
	if nil != err {
		return err
	}
	data, err = sjson.SetBytes(data, key, value)
	if nil != err {
		return fmt.Errorf("unable to set %v: %w", key, err)
	}
	return ioutil.WriteFile(path, data, 0644)
}
