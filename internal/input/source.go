package input

import (
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

// Source delivers lane inputs to the frame loop. Poll never blocks and
// stamps every input with now, the song time of the frame.
type Source interface {
	Poll(now time.Duration) []game.Input
	Close() error
}

// Quitter is implemented by sources that can ask the game to stop.
type Quitter interface {
	Quit() bool
}
