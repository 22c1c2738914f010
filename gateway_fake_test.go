package connectctl

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// fakeGateway is a scripted in-memory Gateway. Tests register one handler
// per command; unhandled commands fail like an unreachable core.
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	handlers map[string]func(args any) (any, error)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		handlers: make(map[string]func(args any) (any, error)),
	}
}

func (f *fakeGateway) Invoke(_ context.Context, command string, args, reply any) error {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	handler := f.handlers[command]
	f.mu.Unlock()

	if handler == nil {
		return &TransportError{Command: command, Err: errors.New("connection refused")}
	}

	result, err := handler(args)
	if err != nil {
		return err
	}

	if reply != nil && result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, reply); err != nil {
			return err
		}
	}
	return nil
}

// handle registers a handler for a command.
func (f *fakeGateway) handle(command string, fn func(args any) (any, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[command] = fn
}

// respond registers a handler that always succeeds with result.
func (f *fakeGateway) respond(command string, result any) {
	f.handle(command, func(any) (any, error) {
		return result, nil
	})
}

// failTransport registers a handler that fails like an unreachable core.
func (f *fakeGateway) failTransport(command string) {
	f.handle(command, func(any) (any, error) {
		return nil, &TransportError{Command: command, Err: errors.New("connection refused")}
	})
}

// failRemote registers a handler that fails with a core-reported error.
func (f *fakeGateway) failRemote(command, message string) {
	f.handle(command, func(any) (any, error) {
		return nil, &RemoteError{Command: command, Message: message}
	})
}

// callsFor counts how many times a command was invoked.
func (f *fakeGateway) callsFor(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == command {
			n++
		}
	}
	return n
}

// commandLog returns the full ordered command history.
func (f *fakeGateway) commandLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	log := make([]string, len(f.calls))
	copy(log, f.calls)
	return log
}
