package connectctl

import "time"

// Default socket location used by the connect tool core. The core owns this
// path; overriding it is only useful for tests and development builds.
const (
	// DefaultSocketPath is the default Unix socket path of the core's
	// command endpoint.
	DefaultSocketPath = "/tmp/connect_tool.sock"

	// DefaultDialTimeout is the default timeout for connecting to the
	// command socket.
	DefaultDialTimeout = 2 * time.Second

	// DefaultWriteTimeout is the default timeout for writing a request.
	DefaultWriteTimeout = 1 * time.Second

	// DefaultReadTimeout is the default timeout for reading a response.
	DefaultReadTimeout = 5 * time.Second
)

// Default polling intervals. Lifecycle status is cheap and drives the
// supervisor's view of the external process, so it polls the fastest.
const (
	// DefaultStatusInterval is the default interval for the supervisor's
	// periodic status check.
	DefaultStatusInterval = 2 * time.Second

	// DefaultLobbyInterval is the default lobby refresh interval.
	DefaultLobbyInterval = 3 * time.Second

	// DefaultVPNInterval is the default VPN status/routes refresh interval.
	DefaultVPNInterval = 2 * time.Second

	// DefaultSteamInterval is the default Steam process probe interval.
	DefaultSteamInterval = 5 * time.Second

	// DefaultFirewallInterval is the default firewall profile refresh
	// interval.
	DefaultFirewallInterval = 5 * time.Second

	// DefaultNotificationTTL is how long an emitted notification stays
	// valid before the presentation layer should drop it.
	DefaultNotificationTTL = 5 * time.Second

	// DefaultWatchDebounce is the debounce applied to socket filesystem
	// events before triggering an immediate status check.
	DefaultWatchDebounce = 25 * time.Millisecond

	// DefaultStopGrace is the grace period granted to background loops
	// when they are stopped.
	DefaultStopGrace = 100 * time.Millisecond
)

// Version is the current version of the go-connectctl library
const Version = "1.0.0"
