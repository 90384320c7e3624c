package score

import (
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

// Scorer keeps the input history of every play of a chart.
type Scorer interface {
	Close() error

	// Save the inputs and result of this performance
	Save(chart *game.Chart, inputs []game.Input, tally Tally) error

	// Load up previous performances of the chart, oldest first
	Load(chart *game.Chart) ([]History, error)
}

type History struct {
	ID          int64
	Sum         string
	Played      time.Time
	Score       int
	MaxPossible int
	Inputs      []game.Input
}
