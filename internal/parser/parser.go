package parser

import (
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/twolane/internal/game"
)

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
}

// ForFile picks the parser for a chart file by its extension.
func ForFile(file string, lanes uint8) Parser {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".sm":
		return &StepManiaParser{}
	case ".mid", ".midi":
		return &MidiParser{Lanes: lanes}
	default:
		return &DefaultParser{}
	}
}
