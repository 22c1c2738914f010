package connectctl

import "time"

// LifecycleState represents the supervisor's view of the core process.
// Exactly one state is current at any time; all transitions go through the
// Supervisor.
type LifecycleState int

const (
	// StateStopped means the core is not running (or unreachable)
	StateStopped LifecycleState = iota
	// StateStarting means a start request is in flight
	StateStarting
	// StateRunning means the core answered its last status check as running
	StateRunning
	// StateStopping means a stop request is in flight
	StateStopping
)

// String returns a human-readable representation of the lifecycle state.
func (s LifecycleState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// transitioning reports whether a start or stop is in flight.
func (s LifecycleState) transitioning() bool {
	return s == StateStarting || s == StateStopping
}

// LifecycleStatus is the full lifecycle record the supervisor exposes to
// views. It is a value type: accessors return copies and callers can never
// mutate the supervisor's state through it.
type LifecycleStatus struct {
	// State is the current lifecycle state
	State LifecycleState

	// PID is the core's process id, 0 when unknown or not running
	PID int

	// Version is the core's reported version, empty when unknown. Version
	// discovery is best effort: a failed version query never fails the
	// lifecycle operation that triggered it.
	Version string

	// LastError is the message of the most recent lifecycle failure, empty
	// after a successful transition or status check
	LastError string

	// CheckedAt is the wall-clock time of the last completed status check
	CheckedAt time.Time
}
