package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const maxLanes = 16

// Config holds every constant a session is started with. It is fixed for the
// lifetime of the session.
type Config struct {
	FrameRate         int           `json:"frameRate,omitempty"`         // Frames per second of the reference loop
	Speed             float64       `json:"speed,omitempty"`             // Travel in units per frame
	TravelDistance    float64       `json:"travelDistance,omitempty"`    // Spawn point to hit-line
	NoteExtent        float64       `json:"noteExtent,omitempty"`        // Size of a note head
	Grace             time.Duration `json:"grace,omitempty"`             // One frame of slack before a miss
	HitDistance       float64       `json:"hitDistance,omitempty"`       // Furthest a press can reach
	Lanes             int           `json:"lanes,omitempty"`             // Number of input lanes
	HoldBonus         int           `json:"holdBonus,omitempty"`         // Points per hold quantum
	HoldQuantumFrames int           `json:"holdQuantumFrames,omitempty"` // Held frames per bonus

	// Shell settings
	Keys        string        `json:"keys,omitempty"`
	Volume      float64       `json:"volume,omitempty"` // Music gain in powers of two
	Offset      time.Duration `json:"offset,omitempty"`
	Delay       time.Duration `json:"delay,omitempty"`
	ResultDelay time.Duration `json:"resultDelay,omitempty"`
	Database    string        `json:"database,omitempty"`
	SongsDir    string        `json:"songsDir,omitempty"`
	EventDevice string        `json:"eventDevice,omitempty"`
	Debug       bool          `json:"debug,omitempty"`
}

func Default() Config {
	return Config{
		FrameRate:         60,
		Speed:             8,
		TravelDistance:    550,
		NoteExtent:        50,
		Grace:             30 * time.Millisecond,
		HitDistance:       70,
		Lanes:             2,
		HoldBonus:         5,
		HoldQuantumFrames: 2,
		Keys:              "fj",
		Delay:             1500 * time.Millisecond,
		ResultDelay:       3 * time.Second,
		Database:          "./scores.db",
		SongsDir:          "songs",
	}
}

func invalid(field, reason string) error {
	return &game.ConfigurationError{Field: field, Reason: reason}
}

// Validate rejects constants that would make the timing model meaningless.
func (c Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return invalid("frame-rate", "must be positive")
	case c.Speed <= 0:
		return invalid("speed", "must be positive")
	case c.TravelDistance <= 0:
		return invalid("travel-distance", "must be positive")
	case c.LeadTime() <= 0:
		return invalid("lead-time", "must be positive")
	case c.NoteExtent < 0:
		return invalid("note-extent", "must not be negative")
	case c.Grace < 0:
		return invalid("grace", "must not be negative")
	case c.HitDistance <= 0:
		return invalid("hit-distance", "must be positive")
	case c.Lanes < 1 || c.Lanes > maxLanes:
		return invalid("lanes", "must be between 1 and "+strconv.Itoa(maxLanes))
	case c.HoldBonus < 0:
		return invalid("hold-bonus", "must not be negative")
	case c.HoldQuantumFrames < 1:
		return invalid("hold-quantum", "must be at least one frame")
	}
	if c.Keys != "" && len([]rune(c.Keys)) != c.Lanes {
		return invalid("keys", "need one key per lane")
	}
	return nil
}

func (c Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// LeadTime is how long a note travels from spawn to the hit-line.
func (c Config) LeadTime() time.Duration {
	if c.FrameRate <= 0 || c.Speed <= 0 {
		return 0
	}
	frames := c.TravelDistance / c.Speed
	return time.Duration(frames * float64(time.Second) / float64(c.FrameRate))
}

// HoldFrames is the number of whole reference frames in d.
func (c Config) HoldFrames(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d) * int64(c.FrameRate) / int64(time.Second)
}

// KeyLane returns the lane bound to r, or -1.
func (c Config) KeyLane(r rune) int {
	for i, k := range []rune(c.Keys) {
		if r == k {
			return i
		}
	}
	return -1
}

func floatString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Register binds the flags of app to c, using the current values of c as
// the defaults.
func Register(app *kingpin.Application, c *Config) {
	app.Flag("frame-rate", "Reference frame rate").Default(strconv.Itoa(c.FrameRate)).IntVar(&c.FrameRate)
	app.Flag("speed", "Note travel per frame").Default(floatString(c.Speed)).Float64Var(&c.Speed)
	app.Flag("travel-distance", "Spawn point to hit-line").Default(floatString(c.TravelDistance)).Float64Var(&c.TravelDistance)
	app.Flag("note-extent", "Note head size").Default(floatString(c.NoteExtent)).Float64Var(&c.NoteExtent)
	app.Flag("grace", "Slack before a late note is missed").Default(c.Grace.String()).DurationVar(&c.Grace)
	app.Flag("hit-distance", "Furthest distance a press can reach").Default(floatString(c.HitDistance)).Float64Var(&c.HitDistance)
	app.Flag("lanes", "Number of lanes").Default(strconv.Itoa(c.Lanes)).IntVar(&c.Lanes)
	app.Flag("hold-bonus", "Points per held quantum").Default(strconv.Itoa(c.HoldBonus)).IntVar(&c.HoldBonus)
	app.Flag("hold-quantum", "Held frames per bonus").Default(strconv.Itoa(c.HoldQuantumFrames)).IntVar(&c.HoldQuantumFrames)
	app.Flag("keys", "One key per lane").Default(c.Keys).Short('k').StringVar(&c.Keys)
	app.Flag("volume", "Music volume, 0 is unchanged and each step doubles or halves").Default(floatString(c.Volume)).Float64Var(&c.Volume)
	app.Flag("offset", "Global offset").Default(c.Offset.String()).Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default(c.Delay.String()).Short('d').DurationVar(&c.Delay)
	app.Flag("result-delay", "Pause after the last note before results").Default(c.ResultDelay.String()).DurationVar(&c.ResultDelay)
	app.Flag("database", "Score history database").Default(c.Database).StringVar(&c.Database)
	app.Flag("songs", "Songs directory").Default(c.SongsDir).StringVar(&c.SongsDir)
	app.Flag("device", "Read lanes from this evdev device instead of the terminal").Default(c.EventDevice).StringVar(&c.EventDevice)
	app.Flag("debug", "Write a debug log").Default(strconv.FormatBool(c.Debug)).BoolVar(&c.Debug)
}

// Dir returns the per user config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "twolane"), nil
}

// Load overlays the settings file at path onto c. A missing file is not an
// error.
func Load(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unable to parse %v: %w", path, err)
	}
	return nil
}

// Save writes c to path, creating the directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
