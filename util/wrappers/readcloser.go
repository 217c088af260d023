// Package wrappers lets code that insists on closing its streams work on
// stdin and stdout without closing the real files.
package wrappers

import (
	"errors"
	"io"
	"sync/atomic"
)

var ErrClosed = errors.New("closed")

// ReaderWrapper turns Close into a flag. Reads after Close fail with
// ErrClosed, the wrapped reader stays open.
type ReaderWrapper struct {
	closed  atomic.Bool
	wrapped io.Reader
}

func NewReaderWrapper(wraps io.Reader) *ReaderWrapper {
	return &ReaderWrapper{wrapped: wraps}
}

func (r *ReaderWrapper) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *ReaderWrapper) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	return r.wrapped.Read(p)
}
