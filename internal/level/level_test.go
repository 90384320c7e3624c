package level

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"git.lost.host/meutraa/twolane/internal/testdata"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); nil != err {
		t.Fatal(err)
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	// Named audio
	write(t, filepath.Join(dir, "b", MetaFile), `{"name": "Second", "audio": "x.mp3", "length_ms": 1234}`)
	write(t, filepath.Join(dir, "b", ChartFile), testdata.ChartJSON)
	write(t, filepath.Join(dir, "b", "x.mp3"), "")
	// Audio found by extension
	write(t, filepath.Join(dir, "a", MetaFile), `{"name": "First", "audio": "missing.mp3"}`)
	write(t, filepath.Join(dir, "a", ChartFile), `{"notes": []}`)
	write(t, filepath.Join(dir, "a", "song.ogg"), "")
	// No chart
	write(t, filepath.Join(dir, "c", MetaFile), `{"name": "No chart"}`)
	write(t, filepath.Join(dir, "c", "song.ogg"), "")
	// No audio
	write(t, filepath.Join(dir, "d", MetaFile), `{"name": "No audio"}`)
	write(t, filepath.Join(dir, "d", ChartFile), `{"notes": []}`)
	// Broken metadata
	write(t, filepath.Join(dir, "e", MetaFile), `{"name": `)
	write(t, filepath.Join(dir, "e", ChartFile), `{"notes": []}`)
	write(t, filepath.Join(dir, "e", "song.wav"), "")
	write(t, filepath.Join(dir, "stray.json"), "{}")

	levels, err := Scan(dir)
	if nil != err {
		t.Fatal(err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected two levels, got %v", len(levels))
	}
	if levels[0].Name != "First" || levels[0].Audio != filepath.Join(dir, "a", "song.ogg") {
		t.Fatalf("first level %+v", levels[0])
	}
	if levels[1].Name != "Second" || levels[1].Audio != filepath.Join(dir, "b", "x.mp3") || levels[1].Length.Milliseconds() != 1234 {
		t.Fatalf("second level %+v", levels[1])
	}

	chart, err := levels[1].Chart()
	if nil != err {
		t.Fatal(err)
	}
	if chart.Len() != 5 || chart.Name() != "Second" {
		t.Fatalf("chart %v with %v notes", chart.Name(), chart.Len())
	}
}

func TestScanCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "songs")
	levels, err := Scan(dir)
	if nil != err || len(levels) != 0 {
		t.Fatalf("%v %v", levels, err)
	}
	if _, err := os.Stat(dir); nil != err {
		t.Fatal(err)
	}
}

func TestCreate(t *testing.T) {
	songs := filepath.Join(t.TempDir(), "songs")
	song := filepath.Join(t.TempDir(), "track.mp3")
	write(t, song, "not really an mp3")

	first, err := Create(songs, song, "Track", "Hard")
	if nil != err {
		t.Fatal(err)
	}
	if filepath.Base(first.Dir) != "level1" || first.Length != 0 {
		t.Fatalf("level %+v", first)
	}
	second, err := Create(songs, song, "Track", "Easy")
	if nil != err {
		t.Fatal(err)
	}
	if filepath.Base(second.Dir) != "level2" {
		t.Fatalf("level %+v", second)
	}

	loaded, err := Load(first.Dir)
	if nil != err {
		t.Fatal(err)
	}
	if loaded.Name != "Track" || loaded.Difficulty != "Hard" || loaded.Audio != filepath.Join(first.Dir, "track.mp3") {
		t.Fatalf("loaded %+v", loaded)
	}
	chart, err := loaded.Chart()
	if nil != err || chart.Len() != 0 {
		t.Fatalf("chart %v %v", chart, err)
	}

	if _, err := Create(songs, filepath.Join(t.TempDir(), "notes.txt"), "x", "y"); nil == err {
		t.Fatal("expected an error for a non audio file")
	}
}

func TestCreateCleansUpOnError(t *testing.T) {
	songs := filepath.Join(t.TempDir(), "songs")
	missing := filepath.Join(t.TempDir(), "gone.ogg")

	if _, err := Create(songs, missing, "Gone", "Easy"); nil == err {
		t.Fatal("expected an error for a missing song")
	}
	entries, err := os.ReadDir(songs)
	if nil != err {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("left behind %v", entries[0].Name())
	}

	levels, err := Scan(songs)
	if nil != err || len(levels) != 0 {
		t.Fatalf("levels %v %v", levels, err)
	}
}

func TestSetMeta(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, MetaFile), `{"name": "Old", "custom": {"kept": true}}`)

	if err := SetMeta(dir, "name", "New"); nil != err {
		t.Fatal(err)
	}
	if err := SetMeta(dir, "length_ms", 5000); nil != err {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if nil != err {
		t.Fatal(err)
	}
	doc := gjson.ParseBytes(data)
	if doc.Get("name").String() != "New" || doc.Get("length_ms").Int() != 5000 || !doc.Get("custom.kept").Bool() {
		t.Fatalf("level.json %s", data)
	}
}

func TestSetLengthAndDifficulty(t *testing.T) {
	songs := filepath.Join(t.TempDir(), "songs")
	song := filepath.Join(t.TempDir(), "track.wav")
	write(t, song, "not really a wav")

	l, err := Create(songs, song, "Track", "Easy")
	if nil != err {
		t.Fatal(err)
	}
	if err := l.SetLength(ms(93500)); nil != err {
		t.Fatal(err)
	}
	if err := l.SetDifficulty("Expert"); nil != err {
		t.Fatal(err)
	}
	if l.Length != ms(93500) || l.Difficulty != "Expert" {
		t.Fatalf("level %+v", l)
	}

	loaded, err := Load(l.Dir)
	if nil != err {
		t.Fatal(err)
	}
	if loaded.Length != ms(93500) || loaded.Difficulty != "Expert" || loaded.Name != "Track" {
		t.Fatalf("loaded %+v", loaded)
	}
}

func TestSaveChart(t *testing.T) {
	dir := t.TempDir()
	l := &Level{Dir: dir, Name: "Song"}
	chart := testdata.GetChart(testdata.Tap(0, 1000), testdata.Hold(1, 2000, 400))
	if err := l.SaveChart(chart); nil != err {
		t.Fatal(err)
	}
	back, err := l.Chart()
	if nil != err {
		t.Fatal(err)
	}
	if back.Hash() != chart.Hash() {
		t.Fatal("saved chart differs")
	}
}
