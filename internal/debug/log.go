package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	out      io.Writer
	file     *os.File
	mu       sync.Mutex
	counters = make(map[string]int)
)

// Enable starts debug logging to path, truncating it. The terminal belongs
// to the renderer, so frame tracing goes to a file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if nil != out {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); nil != err {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if nil != err {
		return err
	}
	file, out = f, f
	write("debug", "=== debug logging started ===")
	return nil
}

// EnableWriter logs to w instead of a file.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out, file = w, nil
}

func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if nil != file {
		file.Close()
		file = nil
	}
	out = nil
	counters = make(map[string]int)
}

func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return nil != out
}

// must hold mu
func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if nil != file {
		file.Sync()
	}
}

// Log writes a message to the debug log
func Log(category, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if nil == out {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every n calls, for per frame events.
func LogEvery(n int, category, format string, args ...interface{}) {
	mu.Lock()
	if nil == out {
		mu.Unlock()
		return
	}
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
