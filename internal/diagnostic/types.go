package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"at-updater/internal/common"
)

// Diagnostic codes emitted during rule resolution.
const (
	CodeMissingSlash    = "missing_slash"
	CodeUnknownClass    = "unknown_class"
	CodeBadVisibility   = "bad_visibility"
	CodeBadKind         = "bad_kind"
	CodeNoConstructors  = "no_constructors"
	CodeNoMatch         = "no_match"
	CodeNoSignature     = "no_signature"
	CodeFuzzed          = "fuzzed"
	CodeDuplicateOutput = "duplicate_output"
)

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `yaml:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `yaml:"code"`
	// Message is the human-readable description.
	Message string `yaml:"message"`
	// Line is the rule line this relates to (if any).
	Line string `yaml:"line,omitempty"`
	// Target is the owner#member the rule addressed (if known).
	Target string `yaml:"target,omitempty"`
	// Suggestions are potential fixes or alternatives.
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the severity by name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Add appends a diagnostic to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Len returns the total number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Error returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Target != "" {
		msg = d.Target + ": " + msg
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	return msg
}
