package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onlybigcars/carbook/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Minute

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Minute},
		{"negative failures", -1, 2 * time.Minute},
		{"one failure", 1, 4 * time.Minute},
		{"two failures", 2, 8 * time.Minute},
		{"three failures", 3, 16 * time.Minute},
		{"four failures capped", 4, 30 * time.Minute}, // Would be 32m, capped to 30m
		{"many failures capped", 10, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Minute
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	StartPoller(ctx, &state.Store{}, func() { calls.Add(1) }, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("refresh called %d times, want at least 2", calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != settled {
		t.Fatalf("refresh called after cancel: %d -> %d", settled, got)
	}
}
