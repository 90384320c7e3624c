package input

import (
	"time"

	"github.com/eiannone/keyboard"

	"git.lost.host/meutraa/twolane/internal/game"
)

// Keyboard reads keys from the terminal. Terminals report no key releases,
// so every key is a press released on the next poll and holds can only be
// played from an evdev device.
type Keyboard struct {
	keys    []rune
	events  <-chan keyboard.KeyEvent
	close   func() error
	pending []uint8 // Lanes to release on the next poll
	quit    bool
}

// OpenKeyboard puts the terminal in raw mode and listens for keys. keys binds
// one rune to each lane.
func OpenKeyboard(keys string) (*Keyboard, error) {
	events, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	k := newKeyboard(events, keys)
	k.close = keyboard.Close
	return k, nil
}

func newKeyboard(events <-chan keyboard.KeyEvent, keys string) *Keyboard {
	return &Keyboard{
		keys:   []rune(keys),
		events: events,
		close:  func() error { return nil },
	}
}

func (k *Keyboard) lane(r rune) int {
	for i, key := range k.keys {
		if r == key {
			return i
		}
	}
	return -1
}

func (k *Keyboard) Poll(now time.Duration) []game.Input {
	inputs := make([]game.Input, 0, len(k.pending))
	down := make([]bool, len(k.keys))
	for _, lane := range k.pending {
		inputs = append(inputs, game.Input{Lane: lane, Pressed: false, Time: now})
	}
	k.pending = k.pending[:0]

	for {
		select {
		case ev, ok := <-k.events:
			if !ok {
				return inputs
			}
			if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
				k.quit = true
				continue
			}
			lane := -1
			switch ev.Key {
			case keyboard.KeyArrowLeft:
				lane = 0
			case keyboard.KeyArrowRight:
				lane = 1
			default:
				lane = k.lane(ev.Rune)
			}
			if lane < 0 || lane >= len(k.keys) {
				continue
			}
			// A second press in the same poll needs the first released
			if down[lane] {
				inputs = append(inputs, game.Input{Lane: uint8(lane), Pressed: false, Time: now})
			} else {
				k.pending = append(k.pending, uint8(lane))
			}
			down[lane] = true
			inputs = append(inputs, game.Input{Lane: uint8(lane), Pressed: true, Time: now})
		default:
			return inputs
		}
	}
}

func (k *Keyboard) Quit() bool {
	return k.quit
}

func (k *Keyboard) Close() error {
	return k.close()
}
