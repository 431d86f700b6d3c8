// Package event provides the event-notification primitive of the microloop
// runtime: a compact fixed-size record, a bounded FIFO queue buffering
// records between asynchronous producers and the main loop, and the dispatch
// call that delivers a record to its recipient.
//
// # Architecture
//
//	 producers (interrupt context)            consumer (main loop)
//	┌──────────┐ ┌──────────┐ ┌─────────┐      ┌──────────────────┐
//	│ pin edge │ │ watchdog │ │ fsm ... │      │  dispatch.Loop    │
//	└────┬─────┘ └────┬─────┘ └────┬────┘      └────────┬─────────┘
//	     │ Push        │ Push       │ Push              │ Dequeue + Dispatch
//	     ▼             ▼            ▼                   ▼
//	  ┌────────────────────────────────────────────────────┐
//	  │          Queue (bounded ring, guard-protected)      │
//	  └────────────────────────────────────────────────────┘
//
// The queue is the only coupling between producer and consumer. Producers
// construct an Event and call Push (or Enqueue); the main loop repeatedly
// dequeues and dispatches. Enqueue on a full queue and Dequeue on an empty
// queue fail fast with a boolean result - nothing blocks, nothing drops
// silently, and callers own the policy for a rejected push.
//
// # Event types
//
// Type is a single byte partitioned by convention: 0 is "no event", the
// reserved block covers pins, timers, state machines, drivers, and servers,
// TypeUser (64) starts the application range, and TypeError (255) is the
// conventional failure tag. No type is globally unique across unrelated
// protocols; meaning belongs to the receiving handler.
//
// # Handlers
//
// A recipient is anything implementing Handler's single OnEvent method. The
// queue holds only non-owning references: a handler's owner manages its
// lifetime, and handlers are assumed to outlive the events that reference
// them. Events with a nil target dispatch as a no-op.
//
// # Concurrency
//
// Producers may run on any goroutine; the consumer is single-threaded.
// Every cursor mutation happens inside a section.Guard held for the minimum
// span. Events are delivered in successful-enqueue order (strict FIFO);
// racing producers are serialized in whatever order the guard admits them.
//
// # Basic usage
//
//	q := event.NewQueue(event.WithCapacity(16))
//
//	// Producer side, any goroutine:
//	if !q.Push(event.TypeRising, handler, pinID) {
//	    // queue full - caller decides whether the drop matters
//	}
//
//	// Consumer side:
//	for {
//	    e, ok := q.Dequeue()
//	    if !ok {
//	        break // empty - do other work
//	    }
//	    e.Dispatch()
//	}
//
// The package-level Push helpers target a lazily constructed process-wide
// queue for code that wants the classic singleton shape; everything else
// should construct and pass an explicit Queue.
//
// # Subpackages
//
//   - section: critical-section guard abstraction
//   - dispatch: panic-safe delivery and the consumer drain loop
package event
