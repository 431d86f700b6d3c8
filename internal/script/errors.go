package script

import "errors"

// Sentinel errors for the script package.
var (
	// ErrNoEntryPoint is returned when a script defines no on_event function.
	ErrNoEntryPoint = errors.New("script does not define on_event")
)
