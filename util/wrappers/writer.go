package wrappers

import (
	"io"
	"sync"
)

// WriterWrapper serializes writes and ignores them after Close. Child
// processes and the repl share stdout through it.
type WriterWrapper struct {
	lock    sync.Mutex
	closed  bool
	wrapped io.Writer
}

func NewWriterWrapper(wraps io.Writer) *WriterWrapper {
	return &WriterWrapper{wrapped: wraps}
}

func (w *WriterWrapper) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.closed = true
	return nil
}

func (w *WriterWrapper) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.closed {
		return 0, ErrClosed
	}
	return w.wrapped.Write(p)
}
