package connectctl

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// WatchCleanupFunc releases a socket watch. It blocks until the watch
// goroutine has exited.
type WatchCleanupFunc func() error

// WatchSocket observes the parent directory of the core's command socket
// and invokes onChange (debounced) whenever the socket file appears,
// disappears, or changes. It lets the supervisor notice externally
// initiated starts and stops faster than the status poll interval; the
// interval remains the correctness bound, the watch is only a latency
// optimization.
//
// The returned cleanup function must be called to release the watcher; no
// callback fires after it returns.
func WatchSocket(socketPath string, debounce time.Duration, onChange func()) (WatchCleanupFunc, error) {
	dir := filepath.Dir(socketPath)
	base := filepath.Base(socketPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	sctx := stopper.WithContext(context.Background())
	sctx.Defer(func() {
		_ = watcher.Close()
	})

	var mu sync.Mutex
	var debouncer *time.Timer
	var stopped bool

	// The debounce timer fires on a goroutine sctx does not track. Holding
	// mu across onChange makes cleanup either wait out an in-flight
	// callback or prevent it entirely via the stopped flag.
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		onChange()
	}

	sctx.Go(func(sctx *stopper.Context) error {
		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(event.Name) != base {
					continue
				}

				mu.Lock()
				if debouncer != nil {
					debouncer.Stop()
				}
				debouncer = time.AfterFunc(debounce, fire)
				mu.Unlock()

			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	})

	cleanup := func() error {
		mu.Lock()
		stopped = true
		if debouncer != nil {
			debouncer.Stop()
		}
		mu.Unlock()

		sctx.Stop(DefaultStopGrace)
		return sctx.Wait()
	}

	return cleanup, nil
}
