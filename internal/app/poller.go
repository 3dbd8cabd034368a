package app

import (
	"context"
	"time"

	"github.com/onlybigcars/carbook/internal/state"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 30 * time.Minute
)

// StartPoller re-requests the current listing at a fixed cadence so prices do
// not go stale in a long-running session. After failures the wait grows
// exponentially up to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, refresh func(), interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			refresh()
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
