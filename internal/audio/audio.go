package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Extensions are the audio formats that can be decoded, in the order a level
// folder is searched for them.
var Extensions = []string{".mp3", ".ogg", ".wav"}

// IsAudio reports whether the file has a decodable extension.
func IsAudio(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode opens and decodes the file by its extension. The streamer owns the
// file and closes it.
func Decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported audio format %v", filepath.Ext(file))
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	return streamer, format, nil
}

// Length is the play time of the file.
func Length(file string) (time.Duration, error) {
	streamer, format, err := Decode(file)
	if nil != err {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}

// Clock is a song clock. It reads negative before the song starts.
type Clock interface {
	Now() time.Duration
}

// WallClock counts from a start instant. It is used when there is no audio,
// for recording silently and in tests.
type WallClock struct {
	Start time.Time
}

func NewWallClock(delay time.Duration) *WallClock {
	return &WallClock{Start: time.Now().Add(delay)}
}

func (c *WallClock) Now() time.Duration {
	return time.Since(c.Start)
}

// Player plays one song and is the song clock for the frame loop.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	mu    sync.Mutex
	clock *WallClock
	done  chan struct{}
}

// Open decodes the song and prepares the speaker for it. volume is in powers
// of two, 0 leaves the song unchanged.
func Open(file string, volume float64) (*Player, error) {
	streamer, format, err := Decode(file)
	if nil != err {
		return nil, err
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to initialize speaker: %w", err)
	}
	ctrl := &beep.Ctrl{Streamer: streamer}
	return &Player{
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		volume: &effects.Volume{
			Streamer: ctrl,
			Base:     2,
			Volume:   volume,
		},
		done: make(chan struct{}),
	}, nil
}

// Start begins playback after delay. Now is negative until then.
func (p *Player) Start(delay time.Duration) {
	p.mu.Lock()
	p.clock = NewWallClock(delay)
	p.mu.Unlock()

	go func() {
		select {
		case <-time.After(delay):
		case <-p.done:
			return
		}
		speaker.Play(p.volume)
	}()
}

// Now is the song position. Before Start it is zero.
func (p *Player) Now() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if nil == p.clock {
		return 0
	}
	return p.clock.Now()
}

// Length of the song.
func (p *Player) Length() time.Duration {
	return p.format.SampleRate.D(p.streamer.Len())
}

// Pause stops or resumes the music. The song clock is not affected.
func (p *Player) Pause(paused bool) {
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *Player) Close() error {
	close(p.done)
	speaker.Clear()
	return p.streamer.Close()
}
