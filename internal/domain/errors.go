package domain

import "errors"

// Domain errors represent error conditions in the framepack domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running watcher.
	ErrAlreadyRunning = errors.New("framepack: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped watcher.
	ErrNotRunning = errors.New("framepack: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("framepack: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("framepack: invalid configuration")

	// ErrInvalidTransition is returned for an illegal lifecycle state change.
	ErrInvalidTransition = errors.New("framepack: invalid state transition")
)
