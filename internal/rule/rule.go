// Package rule parses access transformer lines and formats resolved
// transforms.
//
// A rule line has the shape
//
//	<visibility> <method|field> <owner>/<member>
//
// where visibility is public, protected, default or private, optionally
// suffixed by -f, and member is a mnemonic, a stable identifier, or <init>.
package rule

import (
	"strings"

	"at-updater/internal/common"
	"at-updater/internal/diagnostic"
)

// Markers used in access transformer files.
const (
	// TraceMarker separates a resolved transform from its source rule.
	TraceMarker = "##"
	// UnresolvedPrefix is prepended to rules that could not be resolved.
	UnresolvedPrefix = "#??? "

	constructorMember = "<init>"
)

// Kind is the member kind a rule targets.
type Kind int

const (
	KindInvalid Kind = iota
	KindMethod
	KindField
)

// String returns the keyword used in access transformer files.
func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindInvalid:
		return "invalid"
	default:
		return common.UnknownStr
	}
}

// ParseKind parses a kind keyword.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "method":
		return KindMethod, true
	case "field":
		return KindField, true
	default:
		return KindInvalid, false
	}
}

var visibilities = map[string]struct{}{
	"public":    {},
	"protected": {},
	"default":   {},
	"private":   {},
}

// ValidVisibility reports whether s is an access level, optionally suffixed by -f.
func ValidVisibility(s string) bool {
	_, ok := visibilities[strings.TrimSuffix(s, "-f")]
	return ok
}

// Rule is one parsed access transformer line.
type Rule struct {
	// Line is the trimmed source line.
	Line       string
	Visibility string
	// KindText is the kind keyword as written; it may be invalid.
	KindText string
	Owner    string
	Member   string
}

// Target returns owner#member as used in trace comments.
func (r Rule) Target() string {
	return r.Owner + "#" + r.Member
}

// Kind returns the parsed kind.
func (r Rule) Kind() (Kind, bool) {
	return ParseKind(r.KindText)
}

// IsConstructor reports whether the rule targets constructors.
func (r Rule) IsConstructor() bool {
	return r.Member == constructorMember
}

// ParseError describes a rule line that cannot be interpreted.
type ParseError struct {
	Code   string
	Line   string
	Detail string
}

func (e *ParseError) Error() string {
	return "bad line " + e.Line + ": " + e.Detail
}

// IsPassthrough reports whether a trimmed line is copied verbatim: blank
// lines, lines carrying a trace comment, and comment lines (including
// previously unresolved rules).
func IsPassthrough(line string) bool {
	return line == "" || strings.Contains(line, TraceMarker) || strings.HasPrefix(line, "#")
}

// Parse splits a non-passthrough line into its parts. Only the owner/member
// split is checked here; visibility and kind are validated by the resolver
// once the owner is known.
func Parse(line string) (Rule, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)

	var target string
	if len(fields) > 0 {
		target = fields[len(fields)-1]
	}

	split := strings.LastIndexByte(target, '/')
	if split < 0 {
		return Rule{Line: line}, &ParseError{
			Code:   diagnostic.CodeMissingSlash,
			Line:   line,
			Detail: "Correct AT format: <visibility> <type> <targetClass>/<target>",
		}
	}

	r := Rule{
		Line:   line,
		Owner:  strings.ReplaceAll(target[:split], ".", "/"),
		Member: target[split+1:],
	}

	if len(fields) > 0 {
		r.Visibility = fields[0]
	}

	if len(fields) > 1 {
		r.KindText = fields[1]
	}

	return r, nil
}

// Unresolved returns the line tagged with the unresolved marker.
func Unresolved(line string) string {
	return UnresolvedPrefix + line
}
