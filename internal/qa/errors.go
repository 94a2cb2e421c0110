package qa

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSeparator indicates an item line without ":=".
	ErrMissingSeparator = errors.New("missing ':=' separator")

	// ErrMalformedComment indicates a comment line
	// that does not match "# text".
	ErrMalformedComment = errors.New("malformed comment")
)

// FormatError is returned when a line of a document
// does not conform to the study format.
//
// Use errors.Is with [ErrMissingSeparator] or [ErrMalformedComment]
// to determine what went wrong.
type FormatError struct {
	// Line is the 1-indexed line number of the offending line,
	// or zero if the line was parsed on its own.
	Line int

	// Text of the offending line.
	Text string

	// Err is the underlying reason.
	Err error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
