package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidCapacity is returned for a queue capacity below one.
	ErrInvalidCapacity = errors.New("invalid queue capacity")

	// ErrInvalidIdleWait is returned for a non-positive loop idle wait.
	ErrInvalidIdleWait = errors.New("invalid loop idle wait")

	// ErrInvalidTraceLimit is returned for a negative trace limit.
	ErrInvalidTraceLimit = errors.New("invalid trace limit")
)
