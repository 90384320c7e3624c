package game

import (
	"time"
)

// Input is a debounced lane transition stamped with the song time.
type Input struct {
	Lane    uint8
	Pressed bool
	Time    time.Duration
}
