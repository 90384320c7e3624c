package game

import (
	"fmt"
)

// FormatError reports a malformed chart. Index is the offending note
// record, or -1 when the problem is with the document itself.
type FormatError struct {
	Path   string
	Index  int
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	where := e.Path
	if where == "" {
		where = "chart"
	}
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v: %v", where, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: note %v: %v: %v", where, e.Index, e.Field, e.Reason)
}

// ConfigurationError reports constants that cannot drive a session.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v: %v", e.Field, e.Reason)
}
