package compositor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/mstarongithub/theinterface/util/multiplexer"
	"github.com/sirupsen/logrus"
)

// Loop is the inbox of the compositor thread. Any goroutine may Post work,
// only the compositor thread runs it.
type Loop struct {
	inbox *multiplexer.ManyToOne[func()]
	log   *logrus.Entry
}

func NewLoop(size int) *Loop {
	return &Loop{
		inbox: multiplexer.NewManyToOne(make(chan func(), size)),
		log:   logrus.WithField("component", "loop"),
	}
}

// Post queues fn to run on the compositor thread. It blocks while the inbox
// is full and fails once the loop was closed.
func (l *Loop) Post(fn func()) error {
	return l.inbox.Send(fn)
}

const (
	callPending int32 = iota
	callRunning
	callCancelled
)

// Call runs fn on the compositor thread and waits for it, or for ctx. When
// ctx ends first fn never runs. Once fn started, Call waits for it to finish
// even past ctx, so fn may write to variables the caller reads afterwards.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	var state atomic.Int32
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		if !state.CompareAndSwap(callPending, callRunning) {
			return
		}
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(callPending, callCancelled) {
			return ctx.Err()
		}
		<-done
		return nil
	}
}

// Drain runs everything queued right now without blocking and returns how
// many closures ran
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn, ok := <-l.inbox.Receiver():
			if !ok {
				return n
			}
			l.dispatch(fn)
			n++
		default:
			return n
		}
	}
}

// Run dispatches posted work until ctx is done or the loop is closed
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn, ok := <-l.inbox.Receiver():
			if !ok {
				return nil
			}
			l.dispatch(fn)
		}
	}
}

func (l *Loop) Close() {
	l.inbox.Close()
}

func (l *Loop) dispatch(fn func()) {
	defer Guard(l.log, "posted closure")
	fn()
}

// Guard recovers a panic of the current callback and logs it. Use it as
// `defer Guard(log, "what")` at every dispatch boundary.
func Guard(log *logrus.Entry, what string) {
	if r := recover(); r != nil {
		log.WithFields(logrus.Fields{
			"callback": what,
			"panic":    fmt.Sprint(r),
			"stack":    string(debug.Stack()),
		}).Errorln("Recovered from panic in callback")
	}
}
