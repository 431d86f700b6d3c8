// Package section provides the critical-section guard used to protect the
// event queue's shared cursors.
//
// On the microcontrollers this runtime models, producers run at interrupt
// priority and the consumer is the cooperative main loop; the only safe way
// to mutate shared state is to suppress preemption, mutate, and restore.
// Guard generalizes that pattern: Enter suspends whatever can preempt the
// caller, Exit restores it. The span between the two must stay as short as
// possible - cursor and count updates only.
//
// Two implementations are provided:
//
//   - Lock: backed by sync.Mutex, for queues shared between goroutines.
//     This is the default and the direct analogue of disable/restore
//     interrupts on hosted platforms.
//
//   - Nop: no suppression at all, for queues touched from a single
//     goroutine (consumer-only queues, deterministic tests).
//
// Guards never block the caller indefinitely in correct use: the protected
// spans are O(1) and no guard is held across handler execution.
package section
