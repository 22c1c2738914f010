package connectctl

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSupervisorStartSuccess(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 42})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.2.3"})

	s := NewSupervisor(gw)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := s.Status()
	if status.State != StateRunning {
		t.Errorf("State = %v, want %v", status.State, StateRunning)
	}
	if status.PID != 42 {
		t.Errorf("PID = %d, want 42", status.PID)
	}
	if status.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", status.Version, "1.2.3")
	}
	if status.LastError != "" {
		t.Errorf("LastError = %q, want empty", status.LastError)
	}
}

func TestSupervisorStartFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failTransport(CmdCoreStart)

	s := NewSupervisor(gw)
	err := s.Start(context.Background())
	if err == nil {
		t.Fatal("expected error from Start")
	}
	if !IsTransport(err) {
		t.Errorf("expected transport error, got %v", err)
	}

	status := s.Status()
	if status.State != StateStopped {
		t.Errorf("State = %v, want %v", status.State, StateStopped)
	}
	if status.LastError == "" {
		t.Error("expected LastError to be recorded")
	}
}

func TestSupervisorVersionFailureTolerated(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 7})
	gw.failTransport(CmdCoreVersion)

	s := NewSupervisor(gw)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := s.Status()
	if status.State != StateRunning {
		t.Errorf("State = %v, want %v", status.State, StateRunning)
	}
	if status.Version != "" {
		t.Errorf("Version = %q, want absent", status.Version)
	}
}

func TestSupervisorStopAlwaysEndsStopped(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 42})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.2.3"})
	gw.failTransport(CmdCoreStop)

	s := NewSupervisor(gw)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	err := s.Stop(context.Background())
	if err == nil {
		t.Fatal("expected error from Stop")
	}

	status := s.Status()
	if status.State != StateStopped {
		t.Errorf("State = %v, want %v", status.State, StateStopped)
	}
	if status.PID != 0 {
		t.Errorf("PID = %d, want cleared", status.PID)
	}
	if status.Version != "" {
		t.Errorf("Version = %q, want cleared", status.Version)
	}
}

func TestSupervisorRejectsInvalidTransitions(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 1})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.0.0"})
	gw.respond(CmdCoreStop, nil)

	s := NewSupervisor(gw)

	if err := s.Stop(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop while stopped = %v, want ErrNotRunning", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Start while running = %v, want ErrAlreadyRunning", err)
	}
}

func TestSupervisorToggle(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 1})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.0.0"})
	gw.respond(CmdCoreStop, nil)

	s := NewSupervisor(gw)

	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("first Toggle failed: %v", err)
	}
	if got := s.Status().State; got != StateRunning {
		t.Fatalf("State after first toggle = %v, want %v", got, StateRunning)
	}

	if err := s.Toggle(context.Background()); err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if got := s.Status().State; got != StateStopped {
		t.Fatalf("State after second toggle = %v, want %v", got, StateStopped)
	}
}

// TestSupervisorBusyExclusion drives concurrent transitions against one
// blocked start: exactly one lifecycle-mutating call reaches the gateway,
// everyone else observes ErrBusy.
func TestSupervisorBusyExclusion(t *testing.T) {
	gw := newFakeGateway()

	started := make(chan struct{})
	release := make(chan struct{})
	gw.handle(CmdCoreStart, func(any) (any, error) {
		close(started)
		<-release
		return CoreStatusReply{Running: true, PID: 9}, nil
	})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.0.0"})

	s := NewSupervisor(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		firstErr <- s.Start(context.Background())
	}()

	<-started

	if err := s.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Start = %v, want ErrBusy", err)
	}
	if err := s.Stop(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Stop = %v, want ErrBusy", err)
	}
	if err := s.Toggle(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Toggle = %v, want ErrBusy", err)
	}

	close(release)
	wg.Wait()

	if err := <-firstErr; err != nil {
		t.Fatalf("pending Start failed: %v", err)
	}
	if got := gw.callsFor(CmdCoreStart); got != 1 {
		t.Errorf("start_core invoked %d times, want exactly 1", got)
	}
	if got := s.Status().State; got != StateRunning {
		t.Errorf("State = %v, want %v", got, StateRunning)
	}
}

func TestSupervisorCheckStatusObservesExternalTermination(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 42})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.2.3"})

	s := NewSupervisor(gw)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The core is killed externally: the next poll reports not running.
	gw.respond(CmdCoreStatus, CoreStatusReply{Running: false})

	status, err := s.CheckStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if status.State != StateStopped {
		t.Errorf("State = %v, want %v", status.State, StateStopped)
	}
	if status.PID != 0 || status.Version != "" {
		t.Errorf("expected pid and version cleared, got pid=%d version=%q", status.PID, status.Version)
	}
}

func TestSupervisorCheckStatusTransportFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStart, CoreStatusReply{Running: true, PID: 42})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.2.3"})
	gw.failTransport(CmdCoreStatus)

	s := NewSupervisor(gw)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status, err := s.CheckStatus(context.Background())
	if err == nil {
		t.Fatal("expected error from CheckStatus")
	}
	if status.State != StateStopped {
		t.Errorf("State = %v, want %v", status.State, StateStopped)
	}
	if status.LastError == "" {
		t.Error("expected LastError to be recorded")
	}
}

func TestSupervisorCheckStatusRunningPicksUpVersion(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(CmdCoreStatus, CoreStatusReply{Running: true, PID: 5})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "2.0.0"})

	s := NewSupervisor(gw)
	status, err := s.CheckStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if status.State != StateRunning {
		t.Errorf("State = %v, want %v", status.State, StateRunning)
	}
	if status.PID != 5 {
		t.Errorf("PID = %d, want 5", status.PID)
	}
	if status.Version != "2.0.0" {
		t.Errorf("Version = %q, want %q", status.Version, "2.0.0")
	}
	if status.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be stamped")
	}
}

// TestSupervisorCheckStatusDoesNotClobberTransition holds a start in
// flight while a status poll lands: the pending transition owns the state.
func TestSupervisorCheckStatusDoesNotClobberTransition(t *testing.T) {
	gw := newFakeGateway()

	started := make(chan struct{})
	release := make(chan struct{})
	gw.handle(CmdCoreStart, func(any) (any, error) {
		close(started)
		<-release
		return CoreStatusReply{Running: true, PID: 9}, nil
	})
	gw.respond(CmdCoreVersion, CoreVersionReply{Version: "1.0.0"})
	gw.respond(CmdCoreStatus, CoreStatusReply{Running: false})

	s := NewSupervisor(gw)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()
	<-started

	status, err := s.CheckStatus(context.Background())
	if err != nil {
		t.Fatalf("CheckStatus failed: %v", err)
	}
	if status.State != StateStarting {
		t.Errorf("State = %v, want %v", status.State, StateStarting)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("pending Start failed: %v", err)
	}
	if got := s.Status().State; got != StateRunning {
		t.Errorf("State = %v, want %v", got, StateRunning)
	}
}
