// Package state holds the service listing shown by the storefront.
//
// # Overview
//
// The refetch trigger writes here after every fetch and the UI reads from
// here on every tick. Store is the only coordination point between them.
//
//	refetch.Trigger                 UI
//	  BeginFetch()                    Snapshot()
//	  catalog.FetchServices           render services, prices,
//	  Update(listing, err)  ───────→  loading and offline state
//
// # Update Semantics
//
//	store.Update(&listing, nil)
//	→ Listing replaced, HasListing = true
//	→ LastError = nil, ConsecutiveFailures = 0
//
//	store.Update(nil, err)
//	→ Listing kept (stale prices beat an empty screen)
//	→ LastError = err, ConsecutiveFailures++
//
// Both clear Loading and set LastUpdated.
//
// # Offline Detection
//
// IsOffline is true after two failures in a row. One failure is shown as a
// warning only.
//
// # Staleness
//
// Listing.Fingerprint records the selection fingerprint the prices were
// fetched for. IsStale compares it with the current selection so the UI can
// mark prices as updating while the debounced refetch is pending.
//
// # Concurrency
//
// Store uses a sync.RWMutex. Snapshot returns copies of the service slices
// and wraps LastError, so callers may keep or modify what they get.
package state
