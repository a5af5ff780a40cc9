package eventbus

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is reported when a call settles after the bus was closed.
var ErrClosed = errors.New("event bus closed")

// Work is the blocking part of a submission, run off the UI loop.
type Work func(ctx context.Context) (bool, error)

// Continuation runs back on the UI loop with the outcome of Work.
type Continuation func(ok bool, err error)

// Settled is posted when a piece of work finishes. The UI loop owns it and
// must call Resume exactly once.
type Settled struct {
	OK     bool
	Err    error
	resume Continuation
}

// Resume runs the continuation on the caller's goroutine.
func (s Settled) Resume() {
	if s.resume != nil {
		s.resume(s.OK, s.Err)
	}
}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// EventBus runs work on worker goroutines and hands the results back to a single
// consumer, the UI loop.
type EventBus struct {
	settled       chan Settled
	ctx           context.Context
	cancel        context.CancelFunc
	errorCallback func(EventBusError)
}

func NewEventBus() *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		settled: make(chan Settled, 16),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (b *EventBus) SetErrorCallback(callback func(EventBusError)) {
	b.errorCallback = callback
}

func (b *EventBus) reportError(operation string, err error) {
	if b.errorCallback != nil {
		b.errorCallback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

// Await starts work on a new goroutine and posts its outcome, including a
// recovered panic as an error, for the UI loop to resume.
func (b *EventBus) Await(work Work, done Continuation) {
	go func() {
		ok, err := Run(b.ctx, work)
		select {
		case b.settled <- Settled{OK: ok, Err: err, resume: done}:
		case <-b.ctx.Done():
			b.reportError("Await", ErrClosed)
		}
	}()
}

// Run calls work, turning a panic into an error.
func Run(ctx context.Context, work Work) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("remote action panicked: %v", r)
		}
	}()
	return work(ctx)
}

// Immediate runs work and its continuation on the calling goroutine. It suits
// callers that are allowed to block, such as scripts and tests.
type Immediate struct{}

func (Immediate) Await(work Work, done Continuation) {
	ok, err := Run(context.Background(), work)
	done(ok, err)
}

// Settled delivers finished work to the UI loop.
func (b *EventBus) Settled() <-chan Settled {
	return b.settled
}

// Pump resumes settled work on the calling goroutine until ctx or the bus is
// done. Hosts without their own event loop use it as the UI loop.
func (b *EventBus) Pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.ctx.Done():
			return
		case s := <-b.settled:
			s.Resume()
		}
	}
}

// Done is closed once the bus is closed.
func (b *EventBus) Done() <-chan struct{} {
	return b.ctx.Done()
}

// Close stops delivery; work still running is abandoned.
func (b *EventBus) Close() {
	b.cancel()
}
