// Package fsm provides a minimal event-driven finite state machine built on
// the event queue: a machine is an event handler whose current state is a
// function value, and transitions are just assignments of the next state.
//
// Machines are driven entirely through the queue. Begin pushes TypeBegin to
// the machine itself, End pushes TypeEnd, and Send pushes arbitrary events;
// the dispatch loop later delivers them to whatever state function is
// current. This keeps machine steps serialized with every other event the
// consumer processes - state functions never run concurrently with each
// other as long as a single loop drains the queue.
package fsm

import "github.com/dshills/microloop/internal/event"

// State is one state of a machine: a function invoked with each event
// delivered while it is current. A state transitions by calling
// (*Machine).Set.
type State func(m *Machine, typ event.Type, value uint16)

// Machine is an event-driven finite state machine. It implements
// event.Handler; producers address events to the machine and the current
// state function interprets them.
type Machine struct {
	queue *event.Queue
	state State
}

// New creates a machine that pushes to q and starts in the initial state.
// The machine holds q by reference and never owns it.
func New(q *event.Queue, initial State) *Machine {
	return &Machine{queue: q, state: initial}
}

// OnEvent implements event.Handler by delegating to the current state.
// A machine with no current state ignores events.
func (m *Machine) OnEvent(typ event.Type, value uint16) {
	if m.state != nil {
		m.state(m, typ, value)
	}
}

// Set transitions the machine to the next state. Passing nil halts the
// machine; subsequent events are ignored.
func (m *Machine) Set(next State) {
	m.state = next
}

// Begin queues the machine's start signal (TypeBegin to itself). Returns
// the queue's result unchanged.
func (m *Machine) Begin() bool {
	return m.queue.Push(event.TypeBegin, m, 0)
}

// End queues the machine's stop signal (TypeEnd to itself).
func (m *Machine) End() bool {
	return m.queue.Push(event.TypeEnd, m, 0)
}

// Send queues an event addressed to the machine itself.
func (m *Machine) Send(typ event.Type, value uint16) bool {
	return m.queue.Push(typ, m, value)
}
