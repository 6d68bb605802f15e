package mapping

import (
	"fmt"
	"strings"
)

// FormatError reports a structurally invalid mapping table line.
// It is fatal: a table built around it would silently mis-resolve.
type FormatError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Source, e.Line, e.Reason, e.Text)
}

func unexpectedSplit(source string, line int, text string, parts []string) *FormatError {
	return &FormatError{
		Source: source,
		Line:   line,
		Text:   text,
		Reason: fmt.Sprintf("unexpected line split [%s]", strings.Join(parts, ", ")),
	}
}
