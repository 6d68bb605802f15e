// Package mnemonic builds the stable identifier to human-readable name
// table from the community-maintained field and method exports.
package mnemonic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Source names used in FormatError.
const (
	MethodsSource = "methods.csv"
	FieldsSource  = "fields.csv"
)

// Table maps a stable field or method identifier to its mnemonic.
// Field and method identifiers are prefixed differently and never collide,
// so both live in one table.
type Table map[string]string

// Name returns the mnemonic of a stable identifier.
func (t Table) Name(stableID string) (string, bool) {
	name, ok := t[stableID]
	return name, ok
}

// FormatError reports a row that does not carry an id and a name.
type FormatError struct {
	Source string
	Row    int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
}

// Build merges the methods and fields exports into one table.
func Build(methods, fields string) (Table, error) {
	table := make(Table)

	if err := Parse(MethodsSource, strings.NewReader(methods), table); err != nil {
		return nil, err
	}

	if err := Parse(FieldsSource, strings.NewReader(fields), table); err != nil {
		return nil, err
	}

	return table, nil
}

// Parse reads one export into table. The header row is always skipped and
// only the first two columns of each row are used.
func Parse(source string, r io.Reader, table Table) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return &FormatError{Source: source, Row: row + 1, Reason: err.Error()}
		}

		row++
		if row == 1 {
			continue // header
		}

		if len(record) < 2 {
			return &FormatError{
				Source: source,
				Row:    row,
				Reason: fmt.Sprintf("expected at least 2 columns, got %d", len(record)),
			}
		}

		table[record[0]] = record[1]
	}
}
