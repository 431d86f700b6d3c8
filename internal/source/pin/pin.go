// Package pin provides simulated pin event sources: producers that translate
// pin activity into events on an injected queue, the way interrupt service
// routines raise events on real hardware.
//
// Sources never block and never retry. A push refused by a full queue is
// counted and reported to the caller; whether a lost edge matters is the
// caller's policy.
package pin

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/microloop/internal/event"
)

// Edge selects which digital transitions raise events.
type Edge uint8

const (
	// EdgeFalling raises TypeFalling on high-to-low transitions.
	EdgeFalling Edge = 1 << iota

	// EdgeRising raises TypeRising on low-to-high transitions.
	EdgeRising

	// EdgeChange raises TypeChange on any transition.
	EdgeChange
)

// Digital is a simulated digital input pin. Set drives the level; each
// observed transition pushes the matching edge event with the pin's id as
// the value.
type Digital struct {
	queue  *event.Queue
	target event.Handler
	id     uint16
	edges  Edge

	mu    sync.Mutex
	level bool

	dropped atomic.Uint64
}

// NewDigital creates a digital pin starting low. Events carry the pin id as
// their value and are addressed to target.
func NewDigital(q *event.Queue, id uint16, target event.Handler, edges Edge) *Digital {
	return &Digital{
		queue:  q,
		target: target,
		id:     id,
		edges:  edges,
	}
}

// ID returns the pin id.
func (p *Digital) ID() uint16 {
	return p.id
}

// Level returns the current pin level.
func (p *Digital) Level() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Set drives the pin to the given level, pushing edge events for the
// transition. It returns false if any event the transition should have
// raised was refused by a full queue. Setting the current level is a no-op
// returning true.
func (p *Digital) Set(high bool) bool {
	p.mu.Lock()
	if p.level == high {
		p.mu.Unlock()
		return true
	}
	p.level = high
	p.mu.Unlock()

	ok := true
	if high && p.edges&EdgeRising != 0 {
		ok = p.push(event.TypeRising) && ok
	}
	if !high && p.edges&EdgeFalling != 0 {
		ok = p.push(event.TypeFalling) && ok
	}
	if p.edges&EdgeChange != 0 {
		ok = p.push(event.TypeChange) && ok
	}
	return ok
}

// Toggle inverts the pin level.
func (p *Digital) Toggle() bool {
	return p.Set(!p.Level())
}

// Dropped returns the number of edge events refused by a full queue.
func (p *Digital) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *Digital) push(typ event.Type) bool {
	if p.queue.Push(typ, p.target, p.id) {
		return true
	}
	p.dropped.Add(1)
	return false
}

// Analog is a simulated analog input pin following the request/completion
// convention: RequestSample raises TypeSampleRequest, and Complete raises
// TypeSampleCompleted carrying the sampled value.
type Analog struct {
	queue   *event.Queue
	target  event.Handler
	id      uint16
	dropped atomic.Uint64
}

// NewAnalog creates an analog pin.
func NewAnalog(q *event.Queue, id uint16, target event.Handler) *Analog {
	return &Analog{queue: q, target: target, id: id}
}

// ID returns the pin id.
func (a *Analog) ID() uint16 {
	return a.id
}

// RequestSample queues a sample request carrying the pin id.
func (a *Analog) RequestSample() bool {
	return a.push(event.TypeSampleRequest, a.id)
}

// Complete queues a sample completion carrying the sampled value.
func (a *Analog) Complete(value uint16) bool {
	return a.push(event.TypeSampleCompleted, value)
}

// Dropped returns the number of events refused by a full queue.
func (a *Analog) Dropped() uint64 {
	return a.dropped.Load()
}

func (a *Analog) push(typ event.Type, value uint16) bool {
	if a.queue.Push(typ, a.target, value) {
		return true
	}
	a.dropped.Add(1)
	return false
}
