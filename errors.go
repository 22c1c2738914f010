package connectctl

import (
	"errors"
	"fmt"
)

// Common errors returned by connectctl operations
var (
	// ErrBusy indicates a lifecycle transition was rejected because another
	// start or stop is already in flight. Concurrent transitions are never
	// queued or merged.
	ErrBusy = errors.New("connectctl: lifecycle transition in flight")

	// ErrAlreadyRunning indicates start was requested while the core is
	// already running.
	ErrAlreadyRunning = errors.New("connectctl: core already running")

	// ErrNotRunning indicates stop was requested while the core is not
	// running.
	ErrNotRunning = errors.New("connectctl: core not running")

	// ErrPollerActive indicates a poller was started twice without an
	// intervening stop.
	ErrPollerActive = errors.New("connectctl: poller already active")

	// ErrDecode indicates a response from the core could not be decoded.
	ErrDecode = errors.New("connectctl: response decode")
)

// TransportError indicates the core was unreachable or the command round
// trip failed before a well-formed response arrived.
type TransportError struct {
	// Command is the command that was being issued
	Command string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *TransportError) Error() string {
	return fmt.Sprintf("connectctl %s: transport: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError indicates the round trip succeeded but the core reported the
// command as failed.
type RemoteError struct {
	// Command is the command that failed
	Command string
	// Message is the failure message reported by the core
	Message string
}

// Error returns a formatted error message
func (e *RemoteError) Error() string {
	return fmt.Sprintf("connectctl %s: remote: %s", e.Command, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
