package refetch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/selection"
)

// Fetcher loads data for sel. ctx is cancelled when the Trigger closes or a
// newer fetch starts.
type Fetcher func(ctx context.Context, sel selection.Selection) error

// Trigger watches a selection container and calls a Fetcher, debounced,
// whenever the selection's fingerprint changes.
type Trigger struct {
	container *selection.Container
	fetch     Fetcher
	logger    *zap.Logger
	delay     time.Duration

	debouncer   *Debouncer
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc

	mu        sync.Mutex
	runGen    uint64
	cancelRun context.CancelFunc
	fetched   string
	fetches   int
	closeOnce sync.Once
}

// TriggerOption customizes a Trigger.
type TriggerOption func(*Trigger)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) TriggerOption {
	return func(t *Trigger) { t.delay = d }
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *zap.Logger) TriggerOption {
	return func(t *Trigger) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTrigger subscribes to c. Nothing is fetched until the fingerprint changes
// or Refresh is called.
func NewTrigger(c *selection.Container, fetch Fetcher, opts ...TriggerOption) *Trigger {
	t := &Trigger{
		container: c,
		fetch:     fetch,
		logger:    zap.NewNop(),
		delay:     DefaultDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("refetch")
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.debouncer = New(t.delay, t.run)
	t.unsubscribe = c.Subscribe(t.onChange)
	return t
}

// Refresh schedules a fetch regardless of the fingerprint, for when a view
// regains focus or its category changes.
func (t *Trigger) Refresh() {
	t.debouncer.Trigger()
}

// Flush runs a pending fetch immediately.
func (t *Trigger) Flush() bool {
	return t.debouncer.Flush()
}

// Fetched returns the fingerprint of the last fetch that completed while it
// was still current, and how many fetches have run.
func (t *Trigger) Fetched() (fingerprint string, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetched, t.fetches
}

// Close unsubscribes, cancels an in-flight fetch and waits for it to return.
func (t *Trigger) Close() {
	t.closeOnce.Do(func() {
		t.unsubscribe()
		t.cancel()
		t.debouncer.Stop()
	})
}

func (t *Trigger) onChange(prev, next selection.Selection) {
	if selection.Fingerprint(prev) == selection.Fingerprint(next) {
		return
	}
	t.debouncer.Trigger()
}

func (t *Trigger) run() {
	if t.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(t.ctx)
	defer cancel()

	t.mu.Lock()
	if t.cancelRun != nil {
		t.cancelRun()
	}
	t.runGen++
	gen := t.runGen
	t.cancelRun = cancel
	t.mu.Unlock()

	sel := t.container.State()
	fp := selection.Fingerprint(sel)
	err := t.fetch(ctx, sel)
	superseded := ctx.Err() != nil || fp != selection.Fingerprint(t.container.State())
	switch {
	case superseded:
		t.logger.Debug("Dropped superseded fetch", zap.String("fingerprint", fp))
	case err != nil:
		t.logger.Warn("Dependent fetch failed",
			zap.String("fingerprint", fp),
			zap.Error(err))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetches++
	if gen == t.runGen {
		t.cancelRun = nil
	}
	if !superseded {
		t.fetched = fp
	}
}
