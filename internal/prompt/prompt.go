// Package prompt obtains field type signatures from the operator.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var (
	// ErrNoInput is returned when the input stream is exhausted.
	ErrNoInput = errors.New("no signature: input closed")
	// ErrEmptySignature is returned for a blank answer.
	ErrEmptySignature = errors.New("empty signature")
)

// Prompter returns the type signature for a field rule. target is the
// owner#member the rule names; member is the name shown to the operator.
type Prompter interface {
	Signature(target, member string) (string, error)
}

// LinePrompter asks on Out and reads one line per question from In.
// It is not safe for concurrent use.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	// interactive is set when In is a terminal, which echoes answers
	// itself. Piped answers are echoed after the question.
	interactive bool
}

// NewLinePrompter creates a prompter over arbitrary streams.
func NewLinePrompter(in io.Reader, out io.Writer, interactive bool) *LinePrompter {
	if out == nil {
		out = io.Discard
	}

	return &LinePrompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// NewStdinPrompter reads from standard input.
func NewStdinPrompter(out io.Writer) *LinePrompter {
	fd := os.Stdin.Fd()
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return NewLinePrompter(os.Stdin, out, interactive)
}

// Signature implements Prompter.
func (p *LinePrompter) Signature(_, member string) (string, error) {
	fmt.Fprintf(p.out, "Signature for %s?\n", member)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading signature for %s: %w", member, err)
	}

	sig := strings.TrimSpace(line)
	if sig == "" {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}

		return "", ErrEmptySignature
	}

	if !p.interactive {
		fmt.Fprintln(p.out, sig)
	}

	return sig, nil
}

// Preset answers from a fixed owner#member → signature table and defers to
// Next for anything else.
type Preset struct {
	Signatures map[string]string
	Next       Prompter
}

// Signature implements Prompter.
func (p Preset) Signature(target, member string) (string, error) {
	if sig, ok := p.Signatures[target]; ok && strings.TrimSpace(sig) != "" {
		return strings.TrimSpace(sig), nil
	}

	if p.Next == nil {
		return "", ErrNoInput
	}

	return p.Next.Signature(target, member)
}
