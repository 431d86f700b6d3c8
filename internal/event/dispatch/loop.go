package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dshills/microloop/internal/event"
)

// DefaultIdleWait is how long Run sleeps on an empty queue when no idle
// hook is installed.
const DefaultIdleWait = 500 * time.Microsecond

// Observer is notified after each delivery. Observers run in the consumer
// goroutine; keep them short.
type Observer func(e event.Event, result Result)

// Loop drains a queue and dispatches each event to its target. One Loop
// serves one queue; the loop is the single consumer the queue's ordering
// guarantee assumes.
type Loop struct {
	queue    *event.Queue
	executor *Executor
	idle     func()
	idleWait time.Duration
	observer Observer

	running atomic.Bool

	// Stats
	dispatched atomic.Uint64
	skipped    atomic.Uint64
	panicked   atomic.Uint64
	idlePasses atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithIdle sets a hook invoked whenever Run finds the queue empty, letting
// the caller interleave other cooperative work. When set, Run does not
// sleep between passes; the hook owns the pacing.
func WithIdle(fn func()) LoopOption {
	return func(l *Loop) {
		l.idle = fn
	}
}

// WithIdleWait sets how long Run sleeps on an empty queue when no idle hook
// is installed. Values at or below zero are ignored.
func WithIdleWait(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.idleWait = d
		}
	}
}

// WithPanicHandler sets the panic handler for handler deliveries.
func WithPanicHandler(h PanicHandler) LoopOption {
	return func(l *Loop) {
		l.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// WithObserver sets an observer notified after each delivery.
func WithObserver(o Observer) LoopOption {
	return func(l *Loop) {
		l.observer = o
	}
}

// NewLoop creates a drain loop for the given queue.
func NewLoop(q *event.Queue, opts ...LoopOption) *Loop {
	l := &Loop{
		queue:    q,
		executor: NewExecutor(),
		idleWait: DefaultIdleWait,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ServeOnce dequeues and dispatches until the queue is empty, returning the
// number of events delivered. It never blocks.
func (l *Loop) ServeOnce() int {
	n := 0
	for {
		e, ok := l.queue.Dequeue()
		if !ok {
			return n
		}
		l.deliver(e)
		n++
	}
}

// Run drains the queue until ctx is cancelled. When the queue is empty it
// calls the idle hook if one is installed, otherwise sleeps for the idle
// wait. Returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.ServeOnce() > 0 {
			continue
		}

		l.idlePasses.Add(1)
		if l.idle != nil {
			l.idle()
			continue
		}

		timer := time.NewTimer(l.idleWait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRunning reports whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// deliver dispatches one event and updates counters.
func (l *Loop) deliver(e event.Event) {
	result := l.executor.Deliver(e)

	switch {
	case result.Panicked:
		l.panicked.Add(1)
		l.dispatched.Add(1)
	case result.Delivered:
		l.dispatched.Add(1)
	default:
		// Nil target: dequeued but nothing to invoke.
		l.skipped.Add(1)
	}

	if l.observer != nil {
		l.observer(e, result)
	}
}

// Stats returns a snapshot of loop counters.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Dispatched: l.dispatched.Load(),
		Skipped:    l.skipped.Load(),
		Panicked:   l.panicked.Load(),
		IdlePasses: l.idlePasses.Load(),
	}
}

// LoopStats contains loop counters.
type LoopStats struct {
	// Dispatched is the number of events delivered to a handler.
	Dispatched uint64

	// Skipped is the number of dequeued events with a nil target.
	Skipped uint64

	// Panicked is the number of deliveries whose handler panicked.
	Panicked uint64

	// IdlePasses is the number of passes that found the queue empty.
	IdlePasses uint64
}
