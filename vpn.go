package connectctl

import "context"

// VPNSnapshot is the reconciled tunnel view: status, counters, and the
// routing table, combined from two commands in one atomic snapshot.
type VPNSnapshot struct {
	Enabled bool
	Stats   VPNStats
	Routes  []VPNRoute
}

// VPNReconciler keeps the tunnel snapshot in sync with the core.
//
// The fetch is a strict two-step sequence: status first, and only when the
// tunnel is enabled, the routing table. The combination is
// complete-or-unchanged: a routing-table failure after a successful status
// fetch publishes nothing, because a snapshot claiming enabled=true with
// stale or missing routes would contradict the status it just observed.
// The previous snapshot stays published until a full sequence succeeds.
type VPNReconciler struct {
	gw     Gateway
	notify *Notifier
	poller *Poller[VPNSnapshot]
}

// NewVPNReconciler creates the VPN reconciler.
func NewVPNReconciler(gw Gateway, opts ...ReconcilerOption) *VPNReconciler {
	cfg := newReconcilerConfig(DefaultVPNInterval, opts)

	r := &VPNReconciler{
		gw:     gw,
		notify: cfg.notify,
	}
	r.poller = NewPoller("vpn", cfg.interval, r.fetch, WithPollerLogger(cfg.log))
	return r
}

// Start begins polling tunnel state.
func (r *VPNReconciler) Start(ctx context.Context) error {
	return r.poller.Start(ctx)
}

// Stop ends polling.
func (r *VPNReconciler) Stop() {
	r.poller.Stop()
}

// Snapshot returns the last reconciled tunnel state.
func (r *VPNReconciler) Snapshot() (VPNSnapshot, bool) {
	return r.poller.Snapshot()
}

func (r *VPNReconciler) fetch(ctx context.Context) (VPNSnapshot, error) {
	var status VPNStatusReply
	if err := r.gw.Invoke(ctx, CmdVPNStatus, nil, &status); err != nil {
		return VPNSnapshot{}, err
	}

	if !status.Enabled {
		// A disabled tunnel has no routes; clear them in the new snapshot.
		return VPNSnapshot{Enabled: false, Stats: status.Stats}, nil
	}

	var routes VPNRoutesReply
	if err := r.gw.Invoke(ctx, CmdVPNRoutes, nil, &routes); err != nil {
		return VPNSnapshot{}, err
	}

	return VPNSnapshot{
		Enabled: true,
		Stats:   status.Stats,
		Routes:  routes.Routes,
	}, nil
}

// StartTunnel asks the core to bring the tunnel up with the given address.
func (r *VPNReconciler) StartTunnel(ctx context.Context, ip, mask string) error {
	if err := r.gw.Invoke(ctx, CmdVPNStart, StartVPNArgs{IP: ip, Mask: mask}, nil); err != nil {
		notifyError(r.notify, "vpn start failed: %v", err)
		return err
	}

	notifySuccess(r.notify, "vpn started")
	r.refresh(ctx)
	return nil
}

// StopTunnel asks the core to tear the tunnel down.
func (r *VPNReconciler) StopTunnel(ctx context.Context) error {
	if err := r.gw.Invoke(ctx, CmdVPNStop, nil, nil); err != nil {
		notifyError(r.notify, "vpn stop failed: %v", err)
		return err
	}

	notifySuccess(r.notify, "vpn stopped")
	r.refresh(ctx)
	return nil
}

func (r *VPNReconciler) refresh(ctx context.Context) {
	if err := r.poller.Refresh(ctx); err != nil {
		notifyError(r.notify, "vpn refresh failed: %v", err)
	}
}
