package connectctl

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Panel is the composition root: one gateway, the supervisor, one
// reconciler per domain, and the notification stream, wired together with
// the application launch sequence. Views read snapshots and lifecycle state
// from here and never talk to the core directly.
type Panel struct {
	// Supervisor owns the core's lifecycle state.
	Supervisor *Supervisor

	// Lobby, VPN, Steam, and Firewall are the per-domain reconcilers.
	Lobby    *LobbyReconciler
	VPN      *VPNReconciler
	Steam    *SteamReconciler
	Firewall *FirewallReconciler

	// Notifier is the user-facing notification request stream.
	Notifier *Notifier

	cfg *Config
	gw  Gateway
	log zerolog.Logger

	statusPoller *Poller[LifecycleStatus]

	mu           sync.Mutex
	started      bool
	watchCleanup WatchCleanupFunc
}

// PanelOption configures a Panel
type PanelOption func(*panelConfig)

type panelConfig struct {
	log zerolog.Logger
	gw  Gateway
}

// WithPanelLogger sets the logger shared by all panel components
func WithPanelLogger(log zerolog.Logger) PanelOption {
	return func(c *panelConfig) {
		c.log = log
	}
}

// WithGateway injects a Gateway, replacing the default socket gateway.
func WithGateway(gw Gateway) PanelOption {
	return func(c *panelConfig) {
		c.gw = gw
	}
}

// NewPanel builds the full component graph from cfg. A nil cfg means
// defaults.
func NewPanel(cfg *Config, opts ...PanelOption) (*Panel, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.normalize()

	pc := panelConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&pc)
	}

	gw := pc.gw
	if gw == nil {
		gw = NewSocketGateway(WithSocketPath(cfg.SocketPath))
	}

	notifier := NewNotifier(WithNotificationTTL(time.Duration(cfg.NotificationTTL)))
	supervisor := NewSupervisor(gw, WithSupervisorLogger(pc.log))

	p := &Panel{
		Supervisor: supervisor,
		Notifier:   notifier,
		cfg:        cfg,
		gw:         gw,
		log:        pc.log,
	}

	p.statusPoller = NewPoller("core-status", time.Duration(cfg.StatusInterval),
		func(ctx context.Context) (LifecycleStatus, error) {
			return supervisor.CheckStatus(ctx)
		},
		WithPollerLogger(pc.log),
	)

	common := func(interval Duration) []ReconcilerOption {
		return []ReconcilerOption{
			WithInterval(time.Duration(interval)),
			WithReconcilerLogger(pc.log),
			WithReconcilerNotifier(notifier),
		}
	}

	p.Lobby = NewLobbyReconciler(gw, common(cfg.LobbyInterval)...)
	p.VPN = NewVPNReconciler(gw, common(cfg.VPNInterval)...)
	p.Steam = NewSteamReconciler(gw, supervisor, common(cfg.SteamInterval)...)
	p.Firewall = NewFirewallReconciler(gw, supervisor, common(cfg.FirewallInterval)...)

	return p, nil
}

// Start runs the launch sequence: exactly one automatic core start attempt
// (when configured), then the supervisor's status loop and every domain
// poller begin regardless of that attempt's outcome. A failed auto-start
// degrades to "core not running" with a notification; it never blocks the
// rest of the panel.
func (p *Panel) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrPollerActive
	}
	p.started = true
	p.mu.Unlock()

	if p.cfg.AutoStartCore {
		if err := p.Supervisor.Start(ctx); err != nil {
			p.log.Warn().Err(err).Msg("automatic core start failed")
			p.Notifier.Error("core start failed: %v", err)
		}
	}

	// A partial launch must not leave the panel half-running: roll every
	// already-started poller back so a later Start can succeed.
	rollback := func(err error) error {
		p.Stop()
		return err
	}

	if err := p.statusPoller.Start(ctx); err != nil {
		return rollback(err)
	}
	if err := p.Lobby.Start(ctx); err != nil {
		return rollback(err)
	}
	if err := p.VPN.Start(ctx); err != nil {
		return rollback(err)
	}
	if err := p.Steam.Start(ctx); err != nil {
		return rollback(err)
	}
	if err := p.Firewall.Start(ctx); err != nil {
		return rollback(err)
	}

	if p.cfg.WatchSocket {
		cleanup, err := WatchSocket(p.cfg.SocketPath, DefaultWatchDebounce, p.nudgeStatus)
		if err != nil {
			// Polling alone still observes every state change within one
			// interval; the watch only tightens latency.
			p.log.Warn().Err(err).Msg("socket watch unavailable, relying on polling")
		} else {
			p.mu.Lock()
			p.watchCleanup = cleanup
			p.mu.Unlock()
		}
	}

	return nil
}

// Stop deactivates every poller and releases the socket watch. In-flight
// fetches are discarded per the Poller contract.
func (p *Panel) Stop() {
	p.mu.Lock()
	cleanup := p.watchCleanup
	p.watchCleanup = nil
	p.started = false
	p.mu.Unlock()

	if cleanup != nil {
		_ = cleanup()
	}

	p.statusPoller.Stop()
	p.Lobby.Stop()
	p.VPN.Stop()
	p.Steam.Stop()
	p.Firewall.Stop()
}

// Lifecycle returns a copy of the supervisor's current lifecycle record.
func (p *Panel) Lifecycle() LifecycleStatus {
	return p.Supervisor.Status()
}

// Notifications returns the notification request stream.
func (p *Panel) Notifications() <-chan Notification {
	return p.Notifier.Events()
}

// nudgeStatus runs an immediate status check outside the schedule, in
// response to socket filesystem events.
func (p *Panel) nudgeStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDialTimeout+DefaultReadTimeout)
	defer cancel()

	if err := p.statusPoller.Refresh(ctx); err != nil {
		p.log.Debug().Err(err).Msg("status nudge failed")
	}
}
