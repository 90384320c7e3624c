package testdata

import (
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

// ChartJSON is a small two lane chart in the persisted format, stored out of
// time order on purpose.
const ChartJSON = `{
	"notes": [
		{"time": 2000, "side": 1},
		{"time": 1000, "side": 0},
		{"time": 1500, "side": 1, "duration": 500},
		{"time": 1000, "side": 1},
		{"time": 3000, "side": 0, "duration": 0}
	]
}`

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Tap returns a tap note at t milliseconds.
func Tap(lane uint8, t int) game.Note {
	return game.Note{Lane: lane, Time: ms(t)}
}

// Hold returns a hold note at t milliseconds lasting d milliseconds.
func Hold(lane uint8, t, d int) game.Note {
	return game.Note{Lane: lane, Time: ms(t), Duration: ms(d)}
}

func GetChart(notes ...game.Note) *game.Chart {
	return game.NewChart("test", notes)
}
