// Package app is the composition root for carbook.
//
// # Overview
//
// A Session owns one selection container and everything that hangs off it:
// the key-value store, the persistence synchronizer, the login manager, the
// services API client, the selection wizard, the listing snapshot store and
// the dependent query trigger. Commands open a Session, use the parts they
// need and close it.
//
// # Startup
//
// The root command resolves settings with config.Load and builds the zap
// logger with logging.New, then hands both to RunTUI:
//
//  1. Open creates the store backend and reconciles the persisted selection
//     into the container (failures are logged and leave it empty)
//  2. RequireLogin enforces auth.required
//  3. Start enables auto-persist, the debounced refetch trigger and the
//     periodic refresh, then schedules the first fetch
//  4. ui.Run blocks until the user quits
//
// # Data Flow
//
//	wizard ──Dispatch──> selection.Container ──Subscribe──┬─> persist (complete selections)
//	                                                      └─> refetch.Trigger (fingerprint change)
//	                                                                 │ debounced
//	                                                                 v
//	                                    catalog.Client.FetchServices ──> state.Store ──> ui
//
// # Periodic Refresh
//
// StartPoller re-requests the listing every refetch.interval so a long-running
// session does not show outdated prices. After failed fetches the interval
// doubles per consecutive failure up to maxBackoff. The refresh goes through
// the trigger's debouncer, so it coalesces with selection-driven fetches.
//
// # Shutdown
//
// Close stops auto-persist and the trigger, waits for in-flight writes and
// closes the store.
package app
