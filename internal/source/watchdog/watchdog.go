// Package watchdog provides timer-driven event sources: a periodic watchdog
// that pushes TypeWatchdog on each tick, and one-shot timeouts that push
// TypeTimeout when they expire.
//
// Both run on goroutines standing in for hardware timer interrupts. They
// push to an injected queue and never block on it: a tick refused by a full
// queue is counted as missed and the source moves on.
package watchdog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/microloop/internal/event"
)

// Watchdog pushes TypeWatchdog to its target on a fixed period. The event
// value is the tick count truncated to 16 bits.
type Watchdog struct {
	queue  *event.Queue
	target event.Handler
	period time.Duration

	mu   sync.Mutex
	done chan struct{}

	ticks  atomic.Uint64
	missed atomic.Uint64
}

// New creates a stopped watchdog.
func New(q *event.Queue, target event.Handler, period time.Duration) (*Watchdog, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	return &Watchdog{
		queue:  q,
		target: target,
		period: period,
	}, nil
}

// Start begins ticking. Returns ErrAlreadyRunning if already started.
func (w *Watchdog) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done != nil {
		return ErrAlreadyRunning
	}
	w.done = make(chan struct{})
	go w.run(w.done)
	return nil
}

// Stop halts ticking. Returns ErrNotRunning if not started.
func (w *Watchdog) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done == nil {
		return ErrNotRunning
	}
	close(w.done)
	w.done = nil
	return nil
}

// Ticks returns the number of periods elapsed since Start.
func (w *Watchdog) Ticks() uint64 {
	return w.ticks.Load()
}

// Missed returns the number of ticks refused by a full queue.
func (w *Watchdog) Missed() uint64 {
	return w.missed.Load()
}

func (w *Watchdog) run(done chan struct{}) {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			n := w.ticks.Add(1)
			if !w.queue.Push(event.TypeWatchdog, w.target, uint16(n)) {
				w.missed.Add(1)
			}
		}
	}
}

// After pushes a single TypeTimeout event carrying value to target once d
// elapses. The returned stop function cancels the timeout if it has not
// fired; it reports whether the cancellation won.
func After(q *event.Queue, target event.Handler, d time.Duration, value uint16) (stop func() bool) {
	t := time.AfterFunc(d, func() {
		// One-shot: an expiry refused by a full queue is not retried.
		q.Push(event.TypeTimeout, target, value)
	})
	return t.Stop
}
