package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/onlybigcars/carbook/internal/catalog"
)

func listing(fp string, ids ...int64) *Listing {
	l := &Listing{Slug: "car-service", Fingerprint: fp}
	for _, id := range ids {
		l.Services = append(l.Services, catalog.Service{ID: id})
	}
	return l
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.BeginFetch()
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false after BeginFetch, want true")
	}
	s.Update(listing("Honda-City-Petrol-Pune", 1, 2), nil)

	snap := s.Snapshot()
	if !snap.HasListing || snap.Listing.Fingerprint != "Honda-City-Petrol-Pune" {
		t.Fatalf("snapshot listing = %#v, want Honda fingerprint", snap.Listing)
	}
	if snap.Loading {
		t.Fatal("Loading = true after Update, want false")
	}
	if len(snap.Listing.Services) != 2 || snap.Listing.Services[0].ID != 1 {
		t.Fatalf("snapshot services = %#v, want 2 items", snap.Listing.Services)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Listing.Services[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.Listing.Services[0].ID != 1 {
		t.Fatalf("Snapshot should clone services; got id %d want 1", snap2.Listing.Services[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(listing("no-car-selected", 1), nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.BeginFetch()
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.Listing.Fingerprint != prev.Listing.Fingerprint || len(snap.Listing.Services) != 1 {
		t.Fatalf("listing changed on error: got %#v want %#v", snap.Listing, prev.Listing)
	}
	if snap.Loading {
		t.Fatal("Loading = true after failed fetch, want false")
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial snapshot = %#v, want online with 0 failures", snap)
	}

	for i := 1; i <= 3; i++ {
		s.Update(nil, errors.New("fail"))
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if want := i >= 2; snap.IsOffline() != want {
			t.Fatalf("IsOffline() = %v, want %v with %d failures", snap.IsOffline(), want, i)
		}
	}

	// Success resets counter
	s.Update(listing("x"), nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: failures=%d offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestSnapshot_IsStale(t *testing.T) {
	var s Store
	if s.Snapshot().IsStale("anything") {
		t.Fatal("empty store should not report stale")
	}
	s.Update(listing("Kia-Seltos-Diesel-"), nil)
	snap := s.Snapshot()
	if snap.IsStale("Kia-Seltos-Diesel-") {
		t.Fatal("IsStale = true for matching fingerprint")
	}
	if !snap.IsStale("no-car-selected") {
		t.Fatal("IsStale = false for different fingerprint")
	}
}
