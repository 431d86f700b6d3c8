package event

import "errors"

// Sentinel errors for the event package. The enqueue/dequeue hot path
// reports full and empty as booleans - interrupt-context producers cannot
// afford error allocation or unwinding - so these sentinels exist for the
// surfaces that talk in errors (configuration, loop setup, adapters).
var (
	// ErrQueueFull corresponds to a rejected enqueue on a full queue.
	ErrQueueFull = errors.New("event queue is full")

	// ErrQueueEmpty corresponds to a rejected dequeue on an empty queue.
	ErrQueueEmpty = errors.New("event queue is empty")

	// ErrNilHandler is returned when a nil handler is supplied where a
	// recipient is required.
	ErrNilHandler = errors.New("handler cannot be nil")
)
