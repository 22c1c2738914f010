package connectctl

import "context"

// SteamSnapshot is the reconciled Steam process view: the installation
// location and the running status, combined from two independent probes.
// The Known flags distinguish "probe never succeeded" from genuine absence.
type SteamSnapshot struct {
	Path         string
	Executable   string
	PathKnown    bool
	Running      bool
	PID          int
	RunningKnown bool
}

// SteamReconciler keeps the Steam process snapshot in sync with the core.
//
// Unlike the VPN reconciler, the two probes here tolerate partial success:
// find_steam and get_steam_running_status are cheap, idempotent, read-only,
// and independently meaningful, so a miss on one carries the previous
// value for that half forward instead of discarding a fresh result from
// the other. This relaxation is deliberate; only a tick where both probes
// fail leaves the snapshot entirely untouched.
type SteamReconciler struct {
	gw     Gateway
	core   CoreController
	notify *Notifier
	poller *Poller[SteamSnapshot]
}

// NewSteamReconciler creates the Steam process reconciler. core may be nil
// when no dependency-stop coordination is wanted (tests, headless usage).
func NewSteamReconciler(gw Gateway, core CoreController, opts ...ReconcilerOption) *SteamReconciler {
	cfg := newReconcilerConfig(DefaultSteamInterval, opts)

	r := &SteamReconciler{
		gw:     gw,
		core:   core,
		notify: cfg.notify,
	}
	r.poller = NewPoller("steam", cfg.interval, r.fetch, WithPollerLogger(cfg.log))
	return r
}

// Start begins polling the Steam process state.
func (r *SteamReconciler) Start(ctx context.Context) error {
	return r.poller.Start(ctx)
}

// Stop ends polling.
func (r *SteamReconciler) Stop() {
	r.poller.Stop()
}

// Snapshot returns the last reconciled Steam process state.
func (r *SteamReconciler) Snapshot() (SteamSnapshot, bool) {
	return r.poller.Snapshot()
}

func (r *SteamReconciler) fetch(ctx context.Context) (SteamSnapshot, error) {
	snap, _ := r.poller.Snapshot()

	var find SteamFindReply
	findErr := r.gw.Invoke(ctx, CmdSteamFind, nil, &find)
	if findErr == nil {
		snap.Path = find.Path
		snap.Executable = find.Executable
		snap.PathKnown = true
	}

	var running SteamRunningReply
	runErr := r.gw.Invoke(ctx, CmdSteamRunning, nil, &running)
	if runErr == nil {
		snap.Running = running.Running
		snap.PID = running.PID
		snap.RunningKnown = true
	}

	if findErr != nil && runErr != nil {
		return SteamSnapshot{}, findErr
	}
	return snap, nil
}

// Init asks the core to initialize its Steam integration.
func (r *SteamReconciler) Init(ctx context.Context) error {
	if err := r.gw.Invoke(ctx, CmdSteamInit, nil, nil); err != nil {
		notifyError(r.notify, "steam init failed: %v", err)
		return err
	}

	notifySuccess(r.notify, "steam initialized")
	r.refresh(ctx)
	return nil
}

// RestartChina relaunches Steam in China mode. When stopCore is set and the
// core is running, the core is stopped first: relaunching Steam while the
// core holds its hooks into the running process corrupts the handoff. The
// relaunch proceeds only after that stop succeeds or is confirmed
// unnecessary.
func (r *SteamReconciler) RestartChina(ctx context.Context, stopCore bool) error {
	if stopCore {
		if err := stopCoreIfRunning(ctx, r.core); err != nil {
			notifyError(r.notify, "steam restart blocked, core stop failed: %v", err)
			return err
		}
	}

	if err := r.gw.Invoke(ctx, CmdSteamRestartChina, nil, nil); err != nil {
		notifyError(r.notify, "steam restart failed: %v", err)
		return err
	}

	notifySuccess(r.notify, "steam restarting")
	r.refresh(ctx)
	return nil
}

func (r *SteamReconciler) refresh(ctx context.Context) {
	if err := r.poller.Refresh(ctx); err != nil {
		notifyError(r.notify, "steam refresh failed: %v", err)
	}
}
