package render

import (
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(period time.Duration, render func() bool)
	Fill(row, column int, message string)
	Flush() error
}
