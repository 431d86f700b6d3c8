package main

import (
	"fmt"

	"github.com/dshills/microloop/internal/event"
	"github.com/dshills/microloop/internal/fsm"
	"github.com/dshills/microloop/internal/sim"
	"github.com/dshills/microloop/internal/source/pin"
)

// Pin ids used by the demo board and its timelines.
const (
	pinButton = 1
	pinLED    = 2
	pinADC    = 3
)

// board is the simulated hardware surface: two digital pins and one
// analog channel, all feeding the same queue and target.
type board struct {
	digital map[string]*pin.Digital
	analog  map[string]*pin.Analog
}

func newBoard(q *event.Queue, target event.Handler) *board {
	return &board{
		digital: map[string]*pin.Digital{
			"button": pin.NewDigital(q, pinButton, target, pin.EdgeChange),
			"led":    pin.NewDigital(q, pinLED, target, pin.EdgeChange),
		},
		analog: map[string]*pin.Analog{
			"adc0": pin.NewAnalog(q, pinADC, target),
		},
	}
}

// apply drives one timeline step into the matching pin.
func (b *board) apply(step sim.Step) error {
	if d, ok := b.digital[step.Pin]; ok {
		switch step.Action {
		case sim.ActionHigh:
			d.Set(true)
		case sim.ActionLow:
			d.Set(false)
		case sim.ActionToggle:
			d.Toggle()
		default:
			return fmt.Errorf("pin %q: %w: %s", step.Pin, sim.ErrUnknownAction, step.Action)
		}
		return nil
	}
	if a, ok := b.analog[step.Pin]; ok {
		switch step.Action {
		case sim.ActionSample:
			a.RequestSample()
		case sim.ActionComplete:
			a.Complete(step.Value)
		default:
			return fmt.Errorf("pin %q: %w: %s", step.Pin, sim.ErrUnknownAction, step.Action)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", sim.ErrUnknownPin, step.Pin)
}

// counter is the default board target: a machine that waits for its
// begin event and then tallies what it sees.
type counter struct {
	*fsm.Machine

	edges   int
	samples int
	ticks   int
}

func newCounter(q *event.Queue) *counter {
	c := &counter{}
	c.Machine = fsm.New(q, c.waiting)
	return c
}

func (c *counter) waiting(m *fsm.Machine, typ event.Type, value uint16) {
	if typ == event.TypeBegin {
		m.Set(c.counting)
	}
}

func (c *counter) counting(m *fsm.Machine, typ event.Type, value uint16) {
	switch typ {
	case event.TypeRising, event.TypeFalling, event.TypeChange:
		c.edges++
	case event.TypeSampleCompleted:
		c.samples++
	case event.TypeWatchdog:
		c.ticks++
	case event.TypeEnd:
		m.Set(nil)
	}
}
