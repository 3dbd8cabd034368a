// Package persist keeps the session's car selection in the durable store.
//
// # Records
//
// A selection is written twice:
//
//   - carContext: the whole Selection as JSON (the consolidated record)
//   - selectedBrand, selectedModel, selectedFuel, userSelectedCity: plain
//     strings read by older app versions (the legacy keys)
//
// Legacy keys are only written for present fields.
//
// # Operations
//
//   - Persist: legacy writes then the consolidated record. Writes are
//     independent and not transactional; failures are joined and returned.
//   - Reconcile: consolidated record first, malformed JSON counts as absent,
//     then the legacy keys. Whatever is found replaces the container state
//     through selection.LoadFromStore. Nothing found leaves it alone.
//   - ClearPersisted: a single MultiRemove of all five keys.
//   - AutoPersist: background Persist after every change that leaves the
//     selection complete.
//
// # Consistency
//
// The container is the source of truth for the running session. The store
// only carries the selection across restarts and is eventually consistent
// with it: background writes are fire-and-forget and may land out of order
// relative to later dispatches. Reconcile replaces in-memory state wholesale,
// so edits made while a slow reconcile is in flight are overwritten.
//
// # Failure Handling
//
// Every store error is logged at warn level and returned to the caller. None
// of them roll back or block the in-memory state.
package persist
