package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/procview/internal/logging"
)

// DefaultInterval is the refresh period used when none is configured.
const DefaultInterval = time.Second

// refreshTimeout bounds a single enumeration started by the refresher.
const refreshTimeout = 10 * time.Second

// PauseSource reports whether periodic refresh should run.
type PauseSource interface {
	ContinueRefreshing() bool
}

// Refresher re-enumerates the store on a fixed tick unless paused, then
// notifies the consumer. Failed cycles are logged and skipped.
type Refresher struct {
	store  *Store
	pause  PauseSource
	logger *logging.Logger

	mu        sync.Mutex
	interval  time.Duration
	onRefresh func(generation uint64)
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	reset     chan time.Duration
}

// NewRefresher creates a stopped refresher. A non-positive interval uses
// DefaultInterval. A nil logger discards output.
func NewRefresher(store *Store, pause PauseSource, interval time.Duration, logger *logging.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Refresher{
		store:    store,
		pause:    pause,
		logger:   logger.WithComponent("refresher"),
		interval: interval,
		reset:    make(chan time.Duration, 1),
	}
}

// OnRefresh registers fn to be called with the new generation after every
// successful refresh. It is called from the refresher goroutine.
func (r *Refresher) OnRefresh(fn func(generation uint64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRefresh = fn
}

// Interval returns the current tick period.
func (r *Refresher) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetInterval changes the tick period. A running loop picks it up on its
// next iteration. Non-positive values are ignored.
func (r *Refresher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.interval = d
	running := r.running
	r.mu.Unlock()

	if !running {
		return
	}
	// Keep only the latest pending value.
	select {
	case <-r.reset:
	default:
	}
	select {
	case r.reset <- d:
	default:
	}
}

// Start launches the background loop. Calling Start on a running
// refresher does nothing.
func (r *Refresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	go r.loop(ctx, r.interval, r.done)
}

// Stop ends the background loop and waits for it to exit. The loop is
// otherwise tied to the life of the program; Stop exists for orderly
// shutdown and tests.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel, done := r.cancel, r.done
	r.running = false
	r.mu.Unlock()

	cancel()
	<-done
}

func (r *Refresher) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-r.reset:
			ticker.Reset(d)
			r.logger.Info("refresh interval changed", "interval", d.String())
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one refresh cycle: skip when paused, otherwise refresh and
// notify. It reports whether a new snapshot was published.
func (r *Refresher) Tick(ctx context.Context) bool {
	if !r.pause.ContinueRefreshing() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if err := r.store.Refresh(ctx); err != nil {
		r.logger.LogError("refresh failed", err)
		return false
	}

	r.mu.Lock()
	notify := r.onRefresh
	r.mu.Unlock()
	if notify != nil {
		notify(r.store.Generation())
	}
	return true
}
