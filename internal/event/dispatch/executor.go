package dispatch

import (
	"runtime/debug"
	"time"

	"github.com/dshills/microloop/internal/event"
)

// PanicHandler is called when a handler panics during delivery. It receives
// the event being delivered, the panic value, and the stack trace.
type PanicHandler func(e event.Event, panicValue any, stack []byte)

// defaultPanicHandler is a no-op. The core never logs or escalates; callers
// that want visibility install their own handler.
func defaultPanicHandler(e event.Event, panicValue any, stack []byte) {}

// Result captures the outcome of delivering one event.
type Result struct {
	// Delivered is true if a handler was invoked (the target was non-nil).
	Delivered bool

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the delivery took.
	Duration time.Duration
}

// Executor delivers events with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(x *Executor) {
		if h != nil {
			x.panicHandler = h
		}
	}
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	x := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Deliver dispatches e to its target and returns the result. Panics in the
// handler are recovered and reported through the panic handler; they never
// escape to the caller.
func (x *Executor) Deliver(e event.Event) (result Result) {
	if e.Target() == nil {
		return Result{}
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Delivered = true
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// Protect the panic handler call - a second panic must not
			// crash the loop either.
			func() {
				defer func() { _ = recover() }()
				x.panicHandler(e, r, stack)
			}()
		}
	}()

	e.Dispatch()
	result.Delivered = true
	return result
}
