package diagnostic

import (
	"fmt"
	"io"
	"strings"
)

// Reporter prints operator-facing resolution messages and returns them as
// Diagnostics. Bad line reports go to Err, progress notices to Out.
type Reporter struct {
	Out io.Writer
	Err io.Writer
}

// NewReporter creates a Reporter writing to the given streams.
// A nil writer discards output.
func NewReporter(out, errOut io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}

	if errOut == nil {
		errOut = io.Discard
	}

	return &Reporter{Out: out, Err: errOut}
}

// BadLine reports a rule that could not be resolved. The detail line is
// indented under the "Bad line" header.
func (r *Reporter) BadLine(code, line, target, detail string, suggestions ...string) Diagnostic {
	diag := Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     detail,
		Line:        line,
		Target:      target,
		Suggestions: suggestions,
	}

	fmt.Fprintf(r.Err, "Bad line: %s\n", line)
	fmt.Fprintf(r.Err, "\t%s\n", detail)

	if len(suggestions) > 0 {
		fmt.Fprintf(r.Err, "\tClosest names: %s\n", strings.Join(suggestions, ", "))
	}

	return diag
}

// Fuzzed reports a member name that matched more than one identifier.
func (r *Reporter) Fuzzed(line, target, member string, matches int) Diagnostic {
	diag := Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeFuzzed,
		Message:  fmt.Sprintf("Fuzzing %s, found %d matches", member, matches),
		Line:     line,
		Target:   target,
	}

	fmt.Fprintln(r.Out, diag.Message)

	return diag
}

// Found reports a single unambiguous match.
func (r *Reporter) Found(member string) {
	fmt.Fprintf(r.Out, "Found mapping for %s\n", member)
}
