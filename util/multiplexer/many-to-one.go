// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package multiplexer

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("multiplexer has been closed")

// A many to one multiplexer
// Raw channels panic when a sender hits a closed channel, so every sender goes
// through this wrapper which turns that case into ErrClosed instead
type ManyToOne[T any] struct {
	outbound chan T
	done     chan struct{}
	once     sync.Once
	lock     sync.RWMutex
	closed   bool
}

// NewManyToOne creates a new ManyToOne multiplexer
// The given channel will be where all messages will be sent to
func NewManyToOne[T any](receiver chan T) *ManyToOne[T] {
	return &ManyToOne[T]{
		outbound: receiver,
		done:     make(chan struct{}),
	}
}

// Send a message, blocking while the receiver is full
// Senders blocked here are released with ErrClosed once the plexer closes
func (m *ManyToOne[T]) Send(msg T) error {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case m.outbound <- msg:
		return nil
	case <-m.done:
		return ErrClosed
	}
}

// TrySend sends without blocking. It reports false if the receiver is full.
func (m *ManyToOne[T]) TrySend(msg T) (bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	select {
	case m.outbound <- msg:
		return true, nil
	default:
		return false, nil
	}
}

// Receiver is the channel everything ends up in
func (m *ManyToOne[T]) Receiver() <-chan T {
	return m.outbound
}

// Done is closed once Close was called
func (m *ManyToOne[T]) Done() <-chan struct{} {
	return m.done
}

// Closes the channel and marks the plexer as closed. Safe to call more than once.
func (m *ManyToOne[T]) Close() {
	m.once.Do(func() {
		close(m.done)
		m.lock.Lock()
		m.closed = true
		close(m.outbound)
		m.lock.Unlock()
	})
}
