package connectctl

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration with YAML support in Go duration syntax
// ("2s", "500ms").
type Duration time.Duration

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the panel's settings. All fields are persisted to a YAML
// document.
type Config struct {
	// SocketPath is the core's command socket path.
	SocketPath string `yaml:"socket_path"`

	// AutoStartCore enables the single automatic core start attempt at
	// application launch.
	AutoStartCore bool `yaml:"auto_start_core"`

	// WatchSocket enables the filesystem watch on the command socket for
	// faster detection of externally initiated core state changes.
	WatchSocket bool `yaml:"watch_socket"`

	// StatusInterval is the supervisor's periodic status check interval.
	StatusInterval Duration `yaml:"status_interval"`

	// LobbyInterval is the lobby refresh interval.
	LobbyInterval Duration `yaml:"lobby_interval"`

	// VPNInterval is the VPN refresh interval.
	VPNInterval Duration `yaml:"vpn_interval"`

	// SteamInterval is the Steam process probe interval.
	SteamInterval Duration `yaml:"steam_interval"`

	// FirewallInterval is the firewall refresh interval.
	FirewallInterval Duration `yaml:"firewall_interval"`

	// NotificationTTL is how long emitted notifications stay valid.
	NotificationTTL Duration `yaml:"notification_ttl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SocketPath:       DefaultSocketPath,
		AutoStartCore:    true,
		WatchSocket:      true,
		StatusInterval:   Duration(DefaultStatusInterval),
		LobbyInterval:    Duration(DefaultLobbyInterval),
		VPNInterval:      Duration(DefaultVPNInterval),
		SteamInterval:    Duration(DefaultSteamInterval),
		FirewallInterval: Duration(DefaultFirewallInterval),
		NotificationTTL:  Duration(DefaultNotificationTTL),
	}
}

// LoadConfig reads the configuration from path. A missing file yields the
// defaults; a present but malformed file is an error. Unknown fields are
// rejected.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	cfg := DefaultConfig()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to path atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	if c.SocketPath == "" {
		c.SocketPath = DefaultSocketPath
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = Duration(DefaultStatusInterval)
	}
	if c.LobbyInterval <= 0 {
		c.LobbyInterval = Duration(DefaultLobbyInterval)
	}
	if c.VPNInterval <= 0 {
		c.VPNInterval = Duration(DefaultVPNInterval)
	}
	if c.SteamInterval <= 0 {
		c.SteamInterval = Duration(DefaultSteamInterval)
	}
	if c.FirewallInterval <= 0 {
		c.FirewallInterval = Duration(DefaultFirewallInterval)
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = Duration(DefaultNotificationTTL)
	}
}
