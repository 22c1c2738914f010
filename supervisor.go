package connectctl

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Supervisor owns the lifecycle state machine of the connect tool core. It
// is the only component that mutates lifecycle state; everything else reads
// copies through Status.
//
// At most one lifecycle transition is in flight at any time. A start or
// stop requested while another is pending fails with ErrBusy instead of
// being queued: coalescing two transitions risks double-spawning or
// double-killing the external process.
type Supervisor struct {
	gw  Gateway
	log zerolog.Logger

	mu     sync.Mutex
	status LifecycleStatus
}

// SupervisorOption configures a Supervisor
type SupervisorOption func(*Supervisor)

// WithSupervisorLogger sets the logger for lifecycle events
func WithSupervisorLogger(log zerolog.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.log = log
	}
}

// NewSupervisor creates a Supervisor in the Stopped state.
func NewSupervisor(gw Gateway, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		gw:  gw,
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Status returns a copy of the current lifecycle record.
func (s *Supervisor) Status() LifecycleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// beginTransition moves the state machine into a transitional state, or
// rejects the request. This is the single admission point for lifecycle
// mutation.
func (s *Supervisor) beginTransition(to LifecycleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State.transitioning() {
		return ErrBusy
	}
	if to == StateStarting && s.status.State == StateRunning {
		return ErrAlreadyRunning
	}
	if to == StateStopping && s.status.State == StateStopped {
		return ErrNotRunning
	}

	s.status.State = to
	return nil
}

// Start asks the core to start. On success the state becomes Running and a
// best-effort version query follows; on failure the state falls back to
// Stopped with the error recorded, and the error is returned.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.beginTransition(StateStarting); err != nil {
		return err
	}

	var reply CoreStatusReply
	err := s.gw.Invoke(ctx, CmdCoreStart, nil, &reply)

	s.mu.Lock()
	if err != nil {
		s.status.State = StateStopped
		s.status.PID = 0
		s.status.LastError = err.Error()
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("core start failed")
		return err
	}
	s.status.State = StateRunning
	s.status.PID = reply.PID
	s.status.LastError = ""
	s.mu.Unlock()

	s.log.Info().Int("pid", reply.PID).Msg("core started")
	s.fetchVersion(ctx)
	return nil
}

// Stop asks the core to stop. The state always ends at Stopped with pid and
// version cleared, even when the stop command itself fails; the failure is
// recorded and returned.
func (s *Supervisor) Stop(ctx context.Context) error {
	if err := s.beginTransition(StateStopping); err != nil {
		return err
	}

	err := s.gw.Invoke(ctx, CmdCoreStop, nil, nil)

	s.mu.Lock()
	s.status.State = StateStopped
	s.status.PID = 0
	s.status.Version = ""
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("core stop failed")
		return err
	}
	s.log.Info().Msg("core stopped")
	return nil
}

// Toggle stops the core when it is running, otherwise starts it.
func (s *Supervisor) Toggle(ctx context.Context) error {
	s.mu.Lock()
	state := s.status.State
	s.mu.Unlock()

	switch state {
	case StateStarting, StateStopping:
		return ErrBusy
	case StateRunning:
		return s.Stop(ctx)
	default:
		return s.Start(ctx)
	}
}

// CheckStatus performs one non-mutating status poll: it queries the running
// flag and process id, and when the core reports running it additionally
// attempts a version query (a failed version query is tolerated, the
// version just stays absent). A transport failure while no transition is in
// flight means the core is unreachable and drives the observed state to
// Stopped with the error recorded.
//
// CheckStatus never touches a transition that is in flight: the pending
// Start or Stop owns the state until it completes.
func (s *Supervisor) CheckStatus(ctx context.Context) (LifecycleStatus, error) {
	var reply CoreStatusReply
	err := s.gw.Invoke(ctx, CmdCoreStatus, nil, &reply)

	s.mu.Lock()
	if s.status.State.transitioning() {
		st := s.status
		s.mu.Unlock()
		return st, err
	}

	s.status.CheckedAt = time.Now()

	if err != nil {
		s.status.State = StateStopped
		s.status.PID = 0
		s.status.Version = ""
		s.status.LastError = err.Error()
		st := s.status
		s.mu.Unlock()
		return st, err
	}

	if reply.Running {
		s.status.State = StateRunning
		s.status.PID = reply.PID
		s.status.LastError = ""
		s.mu.Unlock()

		s.fetchVersion(ctx)

		s.mu.Lock()
		st := s.status
		s.mu.Unlock()
		return st, nil
	}

	s.status.State = StateStopped
	s.status.PID = 0
	s.status.Version = ""
	st := s.status
	s.mu.Unlock()
	return st, nil
}

// fetchVersion attempts a version query and records the result. Failure is
// deliberately not a lifecycle failure.
func (s *Supervisor) fetchVersion(ctx context.Context) {
	var reply CoreVersionReply
	if err := s.gw.Invoke(ctx, CmdCoreVersion, nil, &reply); err != nil {
		s.log.Debug().Err(err).Msg("version query failed, leaving version absent")
		return
	}

	s.mu.Lock()
	if s.status.State == StateRunning {
		s.status.Version = reply.Version
	}
	s.mu.Unlock()
}
