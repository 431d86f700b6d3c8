// Package sim replays JSON stimulus timelines against simulated event
// sources. A timeline is an ordered list of steps, each naming a pin, an
// action, and an offset from replay start:
//
//	{
//	  "steps": [
//	    {"at_ms": 0,  "pin": "button", "action": "high"},
//	    {"at_ms": 10, "pin": "button", "action": "low"},
//	    {"at_ms": 20, "pin": "adc0",   "action": "complete", "value": 512}
//	  ]
//	}
//
// The replayer applies steps through a caller-supplied function, so the
// package knows nothing about the concrete sources behind the names.
package sim

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// Action is a stimulus verb applied to a named pin.
type Action string

const (
	// ActionHigh drives a digital pin high.
	ActionHigh Action = "high"

	// ActionLow drives a digital pin low.
	ActionLow Action = "low"

	// ActionToggle inverts a digital pin.
	ActionToggle Action = "toggle"

	// ActionSample requests an analog sample.
	ActionSample Action = "sample"

	// ActionComplete completes an analog sample with the step's value.
	ActionComplete Action = "complete"
)

// valid reports whether the action is one of the known verbs.
func (a Action) valid() bool {
	switch a {
	case ActionHigh, ActionLow, ActionToggle, ActionSample, ActionComplete:
		return true
	}
	return false
}

// Step is one timeline entry.
type Step struct {
	// At is the offset from replay start.
	At time.Duration

	// Pin names the source the step applies to.
	Pin string

	// Action is the stimulus verb.
	Action Action

	// Value is the payload for actions that carry one.
	Value uint16
}

// Timeline is an ordered stimulus sequence.
type Timeline struct {
	Steps []Step
}

// Parse decodes a timeline from JSON.
func Parse(data []byte) (Timeline, error) {
	root := gjson.ParseBytes(data)
	steps := root.Get("steps")
	if !steps.Exists() || !steps.IsArray() {
		return Timeline{}, ErrNoSteps
	}

	var tl Timeline
	var parseErr error
	lastAt := time.Duration(-1)

	steps.ForEach(func(idx, s gjson.Result) bool {
		step := Step{
			At:     time.Duration(s.Get("at_ms").Int()) * time.Millisecond,
			Pin:    s.Get("pin").String(),
			Action: Action(s.Get("action").String()),
			Value:  uint16(s.Get("value").Int()),
		}

		switch {
		case step.Pin == "":
			parseErr = fmt.Errorf("step %d: %w", int(idx.Int()), ErrMissingPin)
		case !step.Action.valid():
			parseErr = fmt.Errorf("step %d: %w: %q", int(idx.Int()), ErrUnknownAction, step.Action)
		case step.At < lastAt:
			parseErr = fmt.Errorf("step %d: %w", int(idx.Int()), ErrStepsOutOfOrder)
		}
		if parseErr != nil {
			return false
		}

		lastAt = step.At
		tl.Steps = append(tl.Steps, step)
		return true
	})

	if parseErr != nil {
		return Timeline{}, parseErr
	}
	return tl, nil
}

// LoadFile reads and parses the timeline at path.
func LoadFile(path string) (Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Timeline{}, fmt.Errorf("reading timeline %s: %w", path, err)
	}
	return Parse(data)
}

// Duration returns the offset of the final step, or zero for an empty
// timeline.
func (tl Timeline) Duration() time.Duration {
	if len(tl.Steps) == 0 {
		return 0
	}
	return tl.Steps[len(tl.Steps)-1].At
}

// Replayer applies a timeline's steps through a caller-supplied function.
type Replayer struct {
	timeline Timeline
	apply    func(Step) error
}

// NewReplayer creates a replayer. apply is invoked once per step, in order.
func NewReplayer(tl Timeline, apply func(Step) error) *Replayer {
	return &Replayer{timeline: tl, apply: apply}
}

// Run replays the timeline in real time, honoring each step's offset.
// It returns the first apply error, or ctx.Err() if cancelled mid-replay.
func (r *Replayer) Run(ctx context.Context) error {
	start := time.Now()

	for i, step := range r.timeline.Steps {
		if wait := step.At - time.Since(start); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := r.apply(step); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i, step.Pin, step.Action, err)
		}
	}
	return nil
}

// RunImmediate applies all steps back to back without waiting. Useful for
// deterministic tests and headless runs.
func (r *Replayer) RunImmediate() error {
	for i, step := range r.timeline.Steps {
		if err := r.apply(step); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i, step.Pin, step.Action, err)
		}
	}
	return nil
}
