package event

import (
	"sync/atomic"

	"github.com/dshills/microloop/internal/event/section"
)

// DefaultCapacity is the queue capacity used when none is configured.
const DefaultCapacity = 16

// Queue is a bounded FIFO ring buffer of events. It is the sole
// synchronization point between asynchronous producers and the single
// consumer draining it: all shared mutable state lives behind the queue's
// guard, and every operation is non-blocking and O(1).
//
// A full queue rejects Enqueue and an empty queue rejects Dequeue; both are
// reported to the caller, never handled silently. The queue never retries,
// never overwrites the oldest entry, and never grows.
type Queue struct {
	guard section.Guard
	slots []Event
	head  int
	tail  int
	count int

	// Counters are kept outside the guarded span; they are observability,
	// not part of the FIFO invariant.
	enqueued atomic.Uint64
	dequeued atomic.Uint64
	rejected atomic.Uint64
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithCapacity sets the number of slots. Values below one are ignored.
func WithCapacity(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.slots = make([]Event, n)
		}
	}
}

// WithGuard sets the critical-section guard protecting the cursors. The
// default is a mutex-backed section.Lock; pass a section.Nop for queues
// used from a single goroutine.
func WithGuard(g section.Guard) QueueOption {
	return func(q *Queue) {
		if g != nil {
			q.guard = g
		}
	}
}

// NewQueue creates a queue with DefaultCapacity slots and a mutex-backed
// guard unless options say otherwise.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		guard: &section.Lock{},
		slots: make([]Event, DefaultCapacity),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends e at the tail. It returns false and leaves the queue
// unchanged when full. Safe to call from any goroutine, including while the
// consumer is mid-Dequeue.
func (q *Queue) Enqueue(e Event) bool {
	q.guard.Enter()
	if q.count == len(q.slots) {
		q.guard.Exit()
		q.rejected.Add(1)
		return false
	}
	q.slots[q.tail] = e
	q.tail = (q.tail + 1) % len(q.slots)
	q.count++
	q.guard.Exit()
	q.enqueued.Add(1)
	return true
}

// Dequeue removes and returns the head event. It returns false when the
// queue is empty.
func (q *Queue) Dequeue() (Event, bool) {
	q.guard.Enter()
	if q.count == 0 {
		q.guard.Exit()
		return Event{}, false
	}
	e := q.slots[q.head]
	// Clear the slot so the queue does not pin handler or env references
	// past delivery.
	q.slots[q.head] = Event{}
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	q.guard.Exit()
	q.dequeued.Add(1)
	return e, true
}

// Push constructs a value event and enqueues it in one step, returning the
// queue's result unchanged.
func (q *Queue) Push(typ Type, target Handler, value uint16) bool {
	return q.Enqueue(New(typ, target, value))
}

// PushEnv constructs an env-carrying event and enqueues it in one step.
func (q *Queue) PushEnv(typ Type, target Handler, env any) bool {
	return q.Enqueue(NewEnv(typ, target, env))
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.guard.Enter()
	n := q.count
	q.guard.Exit()
	return n
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.slots)
}

// Empty reports whether the queue holds no events.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Full reports whether the queue has no free slots.
func (q *Queue) Full() bool {
	return q.Len() == len(q.slots)
}

// Stats returns a snapshot of queue counters. Values are read without the
// guard and may be slightly inconsistent under concurrent updates.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Enqueued: q.enqueued.Load(),
		Dequeued: q.dequeued.Load(),
		Rejected: q.rejected.Load(),
		Depth:    q.Len(),
		Capacity: len(q.slots),
	}
}

// QueueStats contains queue counters.
type QueueStats struct {
	// Enqueued is the number of successful Enqueue calls.
	Enqueued uint64

	// Dequeued is the number of successful Dequeue calls.
	Dequeued uint64

	// Rejected is the number of Enqueue calls refused because the queue
	// was full.
	Rejected uint64

	// Depth is the number of events queued at snapshot time.
	Depth int

	// Capacity is the fixed slot count.
	Capacity int
}
