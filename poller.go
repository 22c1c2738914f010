package connectctl

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"vawter.tech/stopper"
)

// FetchFunc produces one domain value per tick.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller repeatedly invokes a fetch function on a fixed interval and
// publishes the latest successful result. It is the one scheduled-task
// primitive underneath every domain reconciler.
//
// Contract:
//
//   - Start performs one fetch immediately, then repeats every interval
//     until Stop.
//   - A fetch failure is logged and swallowed; the last published value
//     stays untouched and the next tick is scheduled regardless. There is
//     no backoff: the failure domain is bounded by the fixed interval.
//   - Stop releases the timer unconditionally. A fetch that is in flight
//     when Stop is called may still resolve afterward; its result is
//     discarded, never published. Nothing is observable after deactivation.
type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	grace    time.Duration
	log      zerolog.Logger

	mu          sync.Mutex
	sctx        *stopper.Context
	cancel      context.CancelFunc
	snap        *T
	lastSuccess time.Time
}

// pollerConfig holds the option-settable parts shared by all Poller
// instantiations.
type pollerConfig struct {
	grace time.Duration
	log   zerolog.Logger
}

// PollerOption configures a Poller
type PollerOption func(*pollerConfig)

// WithPollerLogger sets the logger used for swallowed fetch failures
func WithPollerLogger(log zerolog.Logger) PollerOption {
	return func(c *pollerConfig) {
		c.log = log
	}
}

// WithStopGrace sets the grace period granted to the polling loop on Stop
func WithStopGrace(d time.Duration) PollerOption {
	return func(c *pollerConfig) {
		c.grace = d
	}
}

// NewPoller creates an inactive Poller. The name identifies the poller in
// log output only.
func NewPoller[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...PollerOption) *Poller[T] {
	cfg := pollerConfig{
		grace: DefaultStopGrace,
		log:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if interval <= 0 {
		interval = time.Second
	}

	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		grace:    cfg.grace,
		log:      cfg.log.With().Str("poller", name).Logger(),
	}
}

// Start activates the poller: one immediate fetch, then one per interval.
// It returns ErrPollerActive if the poller is already active. The previous
// snapshot, if any, survives a Stop/Start cycle.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.sctx != nil {
		p.mu.Unlock()
		return ErrPollerActive
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	sctx := stopper.WithContext(ctx)
	p.sctx = sctx
	p.cancel = cancel
	p.mu.Unlock()

	sctx.Go(func(sctx *stopper.Context) error {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(fetchCtx, sctx)

		for {
			select {
			case <-sctx.Stopping():
				return nil
			case <-ticker.C:
				p.tick(fetchCtx, sctx)
			}
		}
	})

	return nil
}

// Stop deactivates the poller. No tick fires after Stop returns, and an
// in-flight fetch result that resolves later is discarded.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	sctx := p.sctx
	cancel := p.cancel
	p.sctx = nil
	p.cancel = nil
	p.mu.Unlock()

	if sctx == nil {
		return
	}

	cancel()
	sctx.Stop(p.grace)
	_ = sctx.Wait()
}

// Active reports whether the poller is currently scheduled.
func (p *Poller[T]) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sctx != nil
}

// Snapshot returns the last successfully published value. The second return
// is false before the first success.
func (p *Poller[T]) Snapshot() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap == nil {
		var zero T
		return zero, false
	}
	return *p.snap, true
}

// LastSuccess returns the wall-clock time of the last successful fetch, or
// the zero time before the first success.
func (p *Poller[T]) LastSuccess() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSuccess
}

// Refresh performs one out-of-band fetch and publishes the result ahead of
// the next scheduled tick. Reconcilers call it after a mutating action so
// the published state reflects the change immediately. Refresh on an
// inactive poller is a no-op.
func (p *Poller[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	sctx := p.sctx
	p.mu.Unlock()

	if sctx == nil {
		return nil
	}

	value, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	p.publish(sctx, value)
	return nil
}

// tick runs one fetch and publishes its result. Failures are swallowed
// here: the snapshot stays as-is and the schedule continues.
func (p *Poller[T]) tick(ctx context.Context, sctx *stopper.Context) {
	value, err := p.fetch(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("fetch failed, keeping previous snapshot")
		return
	}
	p.publish(sctx, value)
}

// publish replaces the snapshot wholesale, unless the poller was stopped or
// restarted while the fetch was in flight.
func (p *Poller[T]) publish(sctx *stopper.Context, value T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A stale fetch must not resurrect state after deactivation.
	if p.sctx != sctx || sctx.IsStopping() {
		return
	}

	p.snap = &value
	p.lastSuccess = time.Now()
}
