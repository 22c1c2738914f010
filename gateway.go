package connectctl

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// Gateway is the single call surface to the connect tool core. Every other
// component in this package depends on it exclusively.
//
// Invoke performs exactly one round trip: it issues the named command with
// the given args and decodes the success payload into reply (which may be
// nil when the caller does not need the payload). It never retries
// internally; retry policy belongs to callers, and not every command is safe
// to repeat (create_lobby is not idempotent).
type Gateway interface {
	Invoke(ctx context.Context, command string, args, reply any) error
}

// request is the wire envelope sent to the core.
type request struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Args    any    `json:"args,omitempty"`
}

// response is the wire envelope received from the core.
type response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// SocketGateway issues commands to the core over its Unix-domain command
// socket. Each Invoke dials a fresh connection, writes one newline-delimited
// JSON request, and reads one response. Connections are not pooled: the
// socket is local and the core treats every connection as one exchange.
type SocketGateway struct {
	// SocketPath is the path to the core's command socket
	SocketPath string

	// DialTimeout is the timeout for establishing the socket connection
	DialTimeout time.Duration

	// WriteTimeout is the timeout for writing the request
	WriteTimeout time.Duration

	// ReadTimeout is the timeout for reading the response
	ReadTimeout time.Duration
}

// GatewayOption configures a SocketGateway
type GatewayOption func(*SocketGateway)

// WithSocketPath sets the command socket path
func WithSocketPath(path string) GatewayOption {
	return func(g *SocketGateway) {
		g.SocketPath = path
	}
}

// WithDialTimeout sets the timeout for socket connections
func WithDialTimeout(d time.Duration) GatewayOption {
	return func(g *SocketGateway) {
		g.DialTimeout = d
	}
}

// WithWriteTimeout sets the timeout for request writes
func WithWriteTimeout(d time.Duration) GatewayOption {
	return func(g *SocketGateway) {
		g.WriteTimeout = d
	}
}

// WithReadTimeout sets the timeout for response reads
func WithReadTimeout(d time.Duration) GatewayOption {
	return func(g *SocketGateway) {
		g.ReadTimeout = d
	}
}

// NewSocketGateway creates a gateway for the core's command socket. The
// socket does not need to exist yet: the core may not be running, and every
// Invoke reports that as a *TransportError.
func NewSocketGateway(opts ...GatewayOption) *SocketGateway {
	g := &SocketGateway{
		SocketPath:   DefaultSocketPath,
		DialTimeout:  DefaultDialTimeout,
		WriteTimeout: DefaultWriteTimeout,
		ReadTimeout:  DefaultReadTimeout,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Invoke implements Gateway.
func (g *SocketGateway) Invoke(ctx context.Context, command string, args, reply any) error {
	dialer := net.Dialer{Timeout: g.DialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", g.SocketPath)
	if err != nil {
		return &TransportError{Command: command, Err: err}
	}
	defer func() { _ = conn.Close() }()

	req := request{
		ID:      uuid.NewString(),
		Command: command,
		Args:    args,
	}

	if deadline, ok := opDeadline(ctx, g.WriteTimeout); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return &TransportError{Command: command, Err: err}
	}

	if deadline, ok := opDeadline(ctx, g.ReadTimeout); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return &TransportError{Command: command, Err: err}
	}

	if resp.ID != req.ID {
		return &TransportError{
			Command: command,
			Err:     fmt.Errorf("%w: response id %q does not match request id %q", ErrDecode, resp.ID, req.ID),
		}
	}

	if !resp.OK {
		return &RemoteError{Command: command, Message: resp.Error}
	}

	if reply != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, reply); err != nil {
			return &TransportError{Command: command, Err: fmt.Errorf("%w: %v", ErrDecode, err)}
		}
	}

	return nil
}

// opDeadline picks the earlier of the per-operation timeout and the
// context's own deadline.
func opDeadline(ctx context.Context, timeout time.Duration) (time.Time, bool) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline, !deadline.IsZero()
}
