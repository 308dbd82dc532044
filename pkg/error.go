package pkg

import "errors"

// Pipeline errors.
var (
	// ErrInvalidConfig indicates an invalid construction-time configuration,
	// such as a zero burst size or zero depth.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotConfigured indicates the transport has not been initialized.
	ErrNotConfigured = errors.New("transport not configured")

	// ErrAlreadyRunning indicates the component is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrNotRunning indicates the component is not running.
	ErrNotRunning = errors.New("not running")

	// ErrNoPort indicates no matching MIDI port was found.
	ErrNoPort = errors.New("no matching MIDI port")
)
