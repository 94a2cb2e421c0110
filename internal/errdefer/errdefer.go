// Package errdefer provides functions for running operations
// that must be deferred until the end of a function,
// but which may return errors that should be returned from the function.
package errdefer

import (
	"errors"
	"io"
)

// Close calls Close on the given Closer,
// and joins any error returned with the given error.
//
// Use it inside a defer statement with a named return.
func Close(err *error, closer io.Closer) {
	Run(err, closer.Close)
}

// Run calls fn and joins any error it returns with the given error.
//
// Use it inside a defer statement with a named return
// for cleanup functions that aren't attached to an io.Closer.
func Run(err *error, fn func() error) {
	*err = errors.Join(*err, fn())
}
