package input

import (
	"encoding/binary"
	"io"
	"log"
	"os"
	"sync"
	"syscall"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey    = 0x01
	keyEsc   = 1
	released = 0
	pressed  = 1
)

// Key codes of a US layout, for binding lanes by letter.
var keyCodes = map[rune]uint16{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ' ': 57,
}

// Arrow keys are always bound to the first two lanes.
const (
	keyLeft  = 105
	keyRight = 106
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type event struct {
	code    uint16
	pressed bool
}

// Evdev reads a Linux input device. Unlike a terminal it reports key releases,
// so holds work.
type Evdev struct {
	file   io.ReadCloser
	lanes  map[uint16]uint8
	events chan event
	done   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	quit bool
}

// OpenEvdev opens a device such as /dev/input/event3. keys binds a letter
// to each lane.
func OpenEvdev(device, keys string) (*Evdev, error) {
	file, err := os.Open(device)
	if nil != err {
		return nil, err
	}
	return NewEvdev(file, keys), nil
}

// NewEvdev reads raw input events from r.
func NewEvdev(r io.ReadCloser, keys string) *Evdev {
	lanes := map[uint16]uint8{}
	for i, k := range []rune(keys) {
		if code, ok := keyCodes[k]; ok {
			lanes[code] = uint8(i)
		}
	}
	if len([]rune(keys)) >= 2 {
		lanes[keyLeft] = 0
		lanes[keyRight] = 1
	}

	e := &Evdev{
		file:   r,
		lanes:  lanes,
		events: make(chan event, 128),
		done:   make(chan struct{}),
	}
	go e.read()
	return e
}

func (e *Evdev) read() {
	defer close(e.events)

	var ev keyEvent
	for {
		if err := binary.Read(e.file, binary.LittleEndian, &ev); nil != err {
			if err != io.EOF {
				log.Println(err, "unable to read keyboard input")
			}
			return
		}
		// Repeats (2) are not new presses
		if ev.Type != evKey || (ev.Value != pressed && ev.Value != released) {
			continue
		}
		select {
		case e.events <- event{code: ev.Code, pressed: ev.Value == pressed}:
		case <-e.done:
			return
		}
	}
}

func (e *Evdev) Poll(now time.Duration) []game.Input {
	var inputs []game.Input
	for {
		select {
		case ev, ok := <-e.events:
			if !ok {
				return inputs
			}
			if ev.code == keyEsc {
				e.mu.Lock()
				e.quit = true
				e.mu.Unlock()
				continue
			}
			lane, bound := e.lanes[ev.code]
			if !bound {
				continue
			}
			inputs = append(inputs, game.Input{Lane: lane, Pressed: ev.pressed, Time: now})
		default:
			return inputs
		}
	}
}

func (e *Evdev) Quit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

// Close stops reading even when nobody polls the pending events.
func (e *Evdev) Close() error {
	e.once.Do(func() { close(e.done) })
	return e.file.Close()
}
