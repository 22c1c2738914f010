package connectctl

import "context"

// FirewallSnapshot holds the enabled flag of each Windows firewall profile,
// fetched in one call. Only the three booleans are stored; the overall
// status is derived at read time so the two can never drift apart.
type FirewallSnapshot struct {
	Domain  bool
	Private bool
	Public  bool
}

// FirewallOverall is the derived overall firewall status.
type FirewallOverall int

const (
	// FirewallMixed means the profiles disagree
	FirewallMixed FirewallOverall = iota
	// FirewallAllEnabled means every profile is enabled
	FirewallAllEnabled
	// FirewallAllDisabled means every profile is disabled
	FirewallAllDisabled
)

// String returns a human-readable representation of the overall status.
func (o FirewallOverall) String() string {
	switch o {
	case FirewallAllEnabled:
		return "all-enabled"
	case FirewallAllDisabled:
		return "all-disabled"
	default:
		return "mixed"
	}
}

// Overall derives the overall status from the three profile flags. It is a
// pure function of the snapshot and is never persisted.
func (s FirewallSnapshot) Overall() FirewallOverall {
	switch {
	case s.Domain && s.Private && s.Public:
		return FirewallAllEnabled
	case !s.Domain && !s.Private && !s.Public:
		return FirewallAllDisabled
	default:
		return FirewallMixed
	}
}

// FirewallReconciler keeps the firewall profile snapshot in sync with the
// core.
type FirewallReconciler struct {
	gw     Gateway
	core   CoreController
	notify *Notifier
	poller *Poller[FirewallSnapshot]
}

// NewFirewallReconciler creates the firewall reconciler. core may be nil
// when no dependency-stop coordination is wanted.
func NewFirewallReconciler(gw Gateway, core CoreController, opts ...ReconcilerOption) *FirewallReconciler {
	cfg := newReconcilerConfig(DefaultFirewallInterval, opts)

	r := &FirewallReconciler{
		gw:     gw,
		core:   core,
		notify: cfg.notify,
	}
	r.poller = NewPoller("firewall", cfg.interval, r.fetch, WithPollerLogger(cfg.log))
	return r
}

// Start begins polling firewall state.
func (r *FirewallReconciler) Start(ctx context.Context) error {
	return r.poller.Start(ctx)
}

// Stop ends polling.
func (r *FirewallReconciler) Stop() {
	r.poller.Stop()
}

// Snapshot returns the last reconciled firewall state.
func (r *FirewallReconciler) Snapshot() (FirewallSnapshot, bool) {
	return r.poller.Snapshot()
}

func (r *FirewallReconciler) fetch(ctx context.Context) (FirewallSnapshot, error) {
	var status FirewallStatusReply
	if err := r.gw.Invoke(ctx, CmdFirewallStatus, nil, &status); err != nil {
		return FirewallSnapshot{}, err
	}

	return FirewallSnapshot{
		Domain:  status.Domain,
		Private: status.Private,
		Public:  status.Public,
	}, nil
}

// Set enables or disables all firewall profiles. When stopCore is set and
// the core is running, the core is stopped first: flipping the firewall
// under a core that is actively managing rules races against it. The
// mutation proceeds only after that stop succeeds or is confirmed
// unnecessary.
func (r *FirewallReconciler) Set(ctx context.Context, enabled, stopCore bool) error {
	if stopCore {
		if err := stopCoreIfRunning(ctx, r.core); err != nil {
			notifyError(r.notify, "firewall change blocked, core stop failed: %v", err)
			return err
		}
	}

	if err := r.gw.Invoke(ctx, CmdFirewallSet, SetFirewallArgs{Enabled: enabled}, nil); err != nil {
		notifyError(r.notify, "firewall change failed: %v", err)
		return err
	}

	if enabled {
		notifySuccess(r.notify, "firewall enabled")
	} else {
		notifySuccess(r.notify, "firewall disabled")
	}

	if err := r.poller.Refresh(ctx); err != nil {
		notifyError(r.notify, "firewall refresh failed: %v", err)
	}
	return nil
}
