package connectctl

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// reconcilerConfig holds the option-settable parts shared by all domain
// reconcilers.
type reconcilerConfig struct {
	interval time.Duration
	log      zerolog.Logger
	notify   *Notifier
}

// ReconcilerOption configures a domain reconciler
type ReconcilerOption func(*reconcilerConfig)

// WithInterval overrides the reconciler's default polling interval
func WithInterval(d time.Duration) ReconcilerOption {
	return func(c *reconcilerConfig) {
		c.interval = d
	}
}

// WithReconcilerLogger sets the logger for swallowed polling failures
func WithReconcilerLogger(log zerolog.Logger) ReconcilerOption {
	return func(c *reconcilerConfig) {
		c.log = log
	}
}

// WithReconcilerNotifier sets the sink for action outcome notifications
func WithReconcilerNotifier(n *Notifier) ReconcilerOption {
	return func(c *reconcilerConfig) {
		c.notify = n
	}
}

func newReconcilerConfig(interval time.Duration, opts []ReconcilerOption) reconcilerConfig {
	cfg := reconcilerConfig{
		interval: interval,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// CoreController is the slice of the Supervisor that side-effecting actions
// depend on: some mutations conflict with a running core and must stop it
// first. *Supervisor satisfies it.
type CoreController interface {
	Status() LifecycleStatus
	Stop(ctx context.Context) error
}

// stopCoreIfRunning implements the ordering dependency shared by the Steam
// and firewall actions: when the core is running, it must be stopped
// successfully before the mutating command may be issued. Mutating while
// the core holds the conflicting resource is the failure being guarded
// against, so a stop failure (including ErrBusy) aborts the action.
func stopCoreIfRunning(ctx context.Context, core CoreController) error {
	if core == nil {
		return nil
	}

	st := core.Status()
	switch st.State {
	case StateStopped:
		return nil
	case StateStarting, StateStopping:
		return ErrBusy
	}

	if err := core.Stop(ctx); err != nil {
		return err
	}
	return nil
}
