package mapping

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Source names used in FormatError.
const (
	JoinedSource       = "joined"
	ConstructorsSource = "constructors"
)

// Build parses the joined table and attaches the constructor table to it.
func Build(joined, constructors string) (Table, error) {
	classes, err := ParseJoined(strings.NewReader(joined))
	if err != nil {
		return nil, err
	}

	if err := AddConstructors(classes, strings.NewReader(constructors)); err != nil {
		return nil, err
	}

	return classes, nil
}

// ParseJoined parses the joined class/member table.
func ParseJoined(r io.Reader) (Table, error) {
	classes := make(Table)

	var current *ClassMapping

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !isIndented(line) {
			parts := strings.Split(line, " ")
			if len(parts) != 2 {
				return nil, unexpectedSplit(JoinedSource, lineNo, line, parts)
			}

			current = NewClassMapping(parts[0], parts[1])
			classes[current.StableName] = current

			continue
		}

		parts := strings.Split(strings.TrimLeft(line, "\t "), " ")
		if current == nil {
			return nil, &FormatError{
				Source: JoinedSource,
				Line:   lineNo,
				Text:   line,
				Reason: "member line before any class line",
			}
		}

		switch len(parts) {
		case 2: // field
			current.Fields[parts[1]] = parts[0]
		case 3: // method
			current.Methods[parts[2]] = parts[0] + " " + parts[1]
		default:
			return nil, unexpectedSplit(JoinedSource, lineNo, line, parts)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading joined table: %w", err)
	}

	return classes, nil
}

// AddConstructors parses the constructor table into the matching classes of
// an already built table. Constructors of unknown classes are skipped:
// anonymous classes have no mapping and no accessible constructor.
func AddConstructors(classes Table, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, " ")
		if len(parts) != 3 {
			return unexpectedSplit(ConstructorsSource, lineNo, line, parts)
		}

		owner := classes.Lookup(parts[1])
		if owner == nil {
			continue
		}

		owner.Constructors[ConstructorName+" "+RewriteDescriptor(parts[2], classes)] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading constructor table: %w", err)
	}

	return nil
}

func isIndented(line string) bool {
	return line[0] == '\t' || line[0] == ' '
}
