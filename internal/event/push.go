package event

import "sync"

// The process-wide default queue backs the package-level push helpers. Code
// that needs isolated event streams or deterministic tests should construct
// and pass its own Queue instead.
var (
	defaultOnce  sync.Once
	defaultQueue *Queue
)

// Default returns the process-wide queue, constructing it with
// DefaultCapacity on first use. It is never torn down.
func Default() *Queue {
	defaultOnce.Do(func() {
		defaultQueue = NewQueue()
	})
	return defaultQueue
}

// Push constructs a value event and enqueues it on the default queue,
// returning the queue's success/failure result unchanged. Usable from any
// goroutine.
func Push(typ Type, target Handler, value uint16) bool {
	return Default().Push(typ, target, value)
}

// PushEnv constructs an env-carrying event and enqueues it on the default
// queue.
func PushEnv(typ Type, target Handler, env any) bool {
	return Default().PushEnv(typ, target, env)
}
