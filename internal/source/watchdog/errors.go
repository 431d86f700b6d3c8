package watchdog

import "errors"

// Sentinel errors for the watchdog package.
var (
	// ErrInvalidPeriod is returned for a non-positive tick period.
	ErrInvalidPeriod = errors.New("watchdog period must be positive")

	// ErrAlreadyRunning is returned when Start is called on a running watchdog.
	ErrAlreadyRunning = errors.New("watchdog is already running")

	// ErrNotRunning is returned when Stop is called on a stopped watchdog.
	ErrNotRunning = errors.New("watchdog is not running")
)
