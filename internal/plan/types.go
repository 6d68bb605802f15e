package plan

import (
	"at-updater/internal/common"
	"at-updater/internal/diagnostic"
	"at-updater/internal/match"
)

// UnresolvedPolicy decides what happens to a rule that could not be resolved.
type UnresolvedPolicy int

const (
	// PolicyMark keeps the rule, prefixed by the unresolved marker.
	PolicyMark UnresolvedPolicy = iota
	// PolicyDrop removes the rule from the output.
	PolicyDrop
)

// String returns a human-readable policy name.
func (p UnresolvedPolicy) String() string {
	switch p {
	case PolicyMark:
		return "mark"
	case PolicyDrop:
		return "drop"
	default:
		return common.UnknownStr
	}
}

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// MethodPrefix marks raw stable method identifiers.
	MethodPrefix string
	// FieldPrefix marks raw stable field identifiers.
	FieldPrefix string
	// Policy applies to every rule that fails to resolve.
	Policy UnresolvedPolicy
	// MaxSuggestions caps the closest names listed for a zero-match rule.
	MaxSuggestions int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		MethodPrefix:   match.DefaultMethodPrefix,
		FieldPrefix:    match.DefaultFieldPrefix,
		Policy:         PolicyMark,
		MaxSuggestions: match.DefaultMaxSuggestions,
	}
}

// Status is the outcome of one input line.
type Status int

const (
	// StatusPassthrough lines were copied verbatim.
	StatusPassthrough Status = iota
	// StatusResolved rules produced zero or more transforms.
	StatusResolved
	// StatusUnresolved rules were kept with the unresolved marker.
	StatusUnresolved
	// StatusDropped rules were removed.
	StatusDropped
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPassthrough:
		return "passthrough"
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	case StatusDropped:
		return "dropped"
	default:
		return common.UnknownStr
	}
}

// MarshalYAML renders the status by name.
func (s Status) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Entry is the resolution of one input line.
type Entry struct {
	// Line is the trimmed input line.
	Line   string
	Status Status
	// Outputs are the lines written for this input, in order.
	Outputs []string
	// Diagnostics raised while resolving this line.
	Diagnostics []diagnostic.Diagnostic
}

// Plan is the resolved access transformer file.
type Plan struct {
	// Lines is the full output, in input order.
	Lines   []string
	Entries []Entry
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Summary counts entries by status.
type Summary struct {
	Total       int `yaml:"total"`
	Passthrough int `yaml:"passthrough"`
	Resolved    int `yaml:"resolved"`
	Unresolved  int `yaml:"unresolved"`
	Dropped     int `yaml:"dropped"`
	Outputs     int `yaml:"outputs"`
}

// Summary counts the plan's entries by status.
func (p *Plan) Summary() Summary {
	s := Summary{Total: len(p.Entries), Outputs: len(p.Lines)}

	for _, e := range p.Entries {
		switch e.Status {
		case StatusPassthrough:
			s.Passthrough++
		case StatusResolved:
			s.Resolved++
		case StatusUnresolved:
			s.Unresolved++
		case StatusDropped:
			s.Dropped++
		}
	}

	return s
}

// UnresolvedTargetError reports a rule whose class or member does not exist.
type UnresolvedTargetError struct {
	Code        string
	Target      string
	Detail      string
	Suggestions []string
}

func (e *UnresolvedTargetError) Error() string {
	return e.Target + ": " + e.Detail
}
