// Package logtail reads the tail of the carbook log file and renders zap JSON
// entries for the terminal.
//
// # Overview
//
// The interactive storefront owns the terminal, so it logs JSON lines to the
// file named by log.file. `carbook logs` uses this package to show the last
// entries in a readable form.
//
// # Reading Log Files
//
// Read uses a ring buffer to extract the last maxLines from a file in one
// sequential pass, using O(maxLines) memory. A non-positive maxLines returns
// the whole file and a missing file yields no lines.
//
// # Rendering
//
// Parse decodes one zap production line (level, time, logger, msg and any
// extra fields). Format renders it as
//
//	09:15:02 WARN  persist  Failed to save car selection error=disk full
//
// with extra fields sorted by key. Tail combines the two, drops entries below
// a minimum level and passes non-JSON lines (panics, stray output) through
// unchanged.
package logtail
