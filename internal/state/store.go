package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/onlybigcars/carbook/internal/catalog"
)

// Listing is one successful fetch of a category's services.
type Listing struct {
	Slug        string
	Fingerprint string // selection fingerprint the prices were fetched for
	Category    catalog.Category
	Services    []catalog.Service
	Pricing     catalog.PricingContext
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Listing             Listing
	HasListing          bool
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the API has failed for multiple fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsStale reports whether the shown prices were fetched for a different
// selection than fingerprint.
func (s Snapshot) IsStale(fingerprint string) bool {
	return s.HasListing && s.Listing.Fingerprint != fingerprint
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// BeginFetch marks a fetch as in flight.
func (s *Store) BeginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = true
}

// Update records the outcome of a fetch. When err is non-nil the previous
// listing is kept but the error is recorded for visibility.
func (s *Store) Update(listing *Listing, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if listing != nil {
		s.snapshot.Listing = cloneListing(*listing)
		s.snapshot.HasListing = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Listing = cloneListing(s.snapshot.Listing)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneListing(l Listing) Listing {
	l.Services = slices.Clone(l.Services)
	l.Category.Services = slices.Clone(l.Category.Services)
	return l
}
