package section

import "sync"

// Guard marks the boundaries of a critical section. Enter suppresses
// preemption of the caller; Exit restores the prior state. Implementations
// must allow Enter/Exit pairs from any goroutine.
type Guard interface {
	// Enter begins the critical section.
	Enter()

	// Exit ends the critical section. Every Enter must be matched by
	// exactly one Exit on the same Guard.
	Exit()
}

// Lock is a Guard backed by a sync.Mutex. It is the default guard for
// queues shared between producer and consumer goroutines.
//
// The zero value is ready to use.
type Lock struct {
	mu sync.Mutex
}

// Enter acquires the underlying mutex.
func (l *Lock) Enter() {
	l.mu.Lock()
}

// Exit releases the underlying mutex.
func (l *Lock) Exit() {
	l.mu.Unlock()
}

// Nop is a Guard that performs no suppression. Use it for queues that are
// only ever touched from a single goroutine, where the mutex cost buys
// nothing.
type Nop struct{}

// Enter does nothing.
func (Nop) Enter() {}

// Exit does nothing.
func (Nop) Exit() {}
