// Package iotest provides IO helpers for tests.
package iotest

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// Writer builds an io.Writer that writes to the given testing.TB.
//
// Each complete line is logged with a separate call to Logf.
// Text after the last newline is held until the next write,
// or logged when the test finishes.
func Writer(t testing.TB) io.Writer {
	w := &writer{t: t}
	t.Cleanup(w.flush)
	return w
}

type writer struct {
	t testing.TB

	mu      sync.Mutex
	partial []byte // guarded by mu
}

func (w *writer) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(b)
	for {
		line, rest, ok := bytes.Cut(b, []byte{'\n'})
		if !ok {
			w.partial = append(w.partial, line...)
			return n, nil
		}
		w.t.Logf("%s%s", w.partial, line)
		w.partial = w.partial[:0]
		b = rest
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.partial) > 0 {
		w.t.Logf("%s", w.partial)
		w.partial = nil
	}
}
