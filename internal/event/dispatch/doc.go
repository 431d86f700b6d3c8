// Package dispatch provides the consumer side of the event queue: panic-safe
// delivery of a single event and the drain loop the main control flow runs.
//
// # Executor
//
// Executor wraps event.Dispatch with panic recovery. Handlers return
// nothing, so the only failure that can escape a delivery is a panic; the
// executor contains it and reports it through a configurable PanicHandler,
// keeping a misbehaving handler from taking down the loop. The runtime
// convention for signaling handler failure is pushing a new event,
// conventionally event.TypeError.
//
// # Loop
//
// Loop implements the dequeue-then-dispatch contract. ServeOnce drains
// whatever is queued and returns, for callers that interleave event delivery
// with other cooperative work. Run loops until the context is cancelled,
// invoking an optional idle hook (or sleeping briefly) whenever the queue is
// empty - the queue itself imposes no waiting policy.
//
// # Usage
//
//	loop := dispatch.NewLoop(queue,
//	    dispatch.WithIdleWait(time.Millisecond),
//	    dispatch.WithPanicHandler(func(e event.Event, v any, stack []byte) {
//	        log.Printf("handler panic on %v: %v", e.Type(), v)
//	    }),
//	)
//	if err := loop.Run(ctx); err != nil {
//	    // context cancelled
//	}
package dispatch
