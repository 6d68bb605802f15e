package fetch

import (
	"fmt"
	"strings"
)

// TransportError reports a connection, read or HTTP status failure.
type TransportError struct {
	URL string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("error downloading mappings from %s: unexpected status %d", e.URL, e.Status)
	}

	return fmt.Sprintf("error downloading mappings from %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ArchiveFormatError reports a payload that is not a readable zip archive.
type ArchiveFormatError struct {
	URL string
	Err error
}

func (e *ArchiveFormatError) Error() string {
	return fmt.Sprintf("invalid (non?) zip response from %s: %v", e.URL, e.Err)
}

func (e *ArchiveFormatError) Unwrap() error { return e.Err }

// NotFoundError reports requested entries missing from the archive.
type NotFoundError struct {
	URL     string
	Missing []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to find targets in %s (missed [%s])", e.URL, strings.Join(e.Missing, ", "))
}
