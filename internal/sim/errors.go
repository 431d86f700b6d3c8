package sim

import "errors"

// Sentinel errors for timeline parsing.
var (
	// ErrNoSteps is returned when the JSON document has no steps array.
	ErrNoSteps = errors.New("timeline has no steps array")

	// ErrMissingPin is returned for a step without a pin name.
	ErrMissingPin = errors.New("step is missing a pin")

	// ErrUnknownAction is returned for a step with an unrecognized action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrStepsOutOfOrder is returned when step offsets decrease.
	ErrStepsOutOfOrder = errors.New("step offsets must not decrease")

	// ErrUnknownPin is returned by appliers when a step names no known source.
	ErrUnknownPin = errors.New("unknown pin")
)
