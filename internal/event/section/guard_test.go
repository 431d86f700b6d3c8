package section

import (
	"sync"
	"testing"
)

func TestLock_MutualExclusion(t *testing.T) {
	var guard Lock
	var counter int

	const goroutines = 8
	const increments = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				guard.Enter()
				counter++
				guard.Exit()
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*increments {
		t.Errorf("counter = %d, want %d", counter, goroutines*increments)
	}
}

func TestLock_ZeroValueUsable(t *testing.T) {
	var guard Lock
	guard.Enter()
	guard.Exit()
	// Re-entry after exit must succeed.
	guard.Enter()
	guard.Exit()
}

func TestNop_DoesNothing(t *testing.T) {
	var guard Nop
	// Unbalanced calls must not fault; Nop holds no state.
	guard.Enter()
	guard.Enter()
	guard.Exit()
}

func TestGuardInterface(t *testing.T) {
	// Both implementations satisfy Guard.
	var _ Guard = &Lock{}
	var _ Guard = Nop{}
}
