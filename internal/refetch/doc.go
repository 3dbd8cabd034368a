// Package refetch re-runs dependent queries when the car selection changes.
//
// # Fingerprints
//
// A query depends on the selection only through selection.Fingerprint:
// "no-car-selected" until the selection is complete, then
// "{brand}-{model}-{fuel}-{city}". Dispatches that leave the fingerprint alone
// (logo or image changes, repeated clears) do not schedule anything.
//
// # Debouncing
//
// Debouncer is a single resettable timer. Every Trigger call pushes the
// deadline out by the delay (DefaultDelay, 100ms, unless configured), so the
// three dispatches of a wizard's last step produce one fetch. Flush runs a
// pending call immediately; Stop cancels and waits for a running call.
//
// # Trigger
//
// Trigger binds a Debouncer to a selection.Container. The Fetcher always
// receives the container state at fire time, not the state that scheduled
// it, so a fetch never runs with a stale selection. Refresh schedules a fetch
// without a fingerprint change, for focus regain or a category switch.
// Close unsubscribes, cancels the fetch context and waits for the fetch in
// flight.
//
// Fetch errors are logged and otherwise ignored; callers that need the
// outcome record it from inside the Fetcher (see internal/state).
package refetch
