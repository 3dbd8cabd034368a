// Package kvstore provides the durable key-value store carbook persists
// selection and session data into.
//
// # Contract
//
// Store is string-keyed and string-valued:
//
//   - Get returns ok=false (and no error) for a missing key
//   - Set overwrites
//   - Remove and MultiRemove ignore missing keys
//   - MultiRemove is atomic: partial removal is never observable
//   - after Close every call returns ErrClosed
//
// # Backends
//
//   - file (default): one TOML document at ~/.local/share/carbook/store.toml,
//     rewritten via temp file + rename on every mutation
//   - sqlite: table kv(key, value, updated_at); MultiRemove runs in a
//     transaction
//   - redis: keys stored as "<prefix><key>"; MultiRemove is a single DEL
//   - memory: in-process map, used by tests and throwaway sessions
//
// Open picks the backend from Options.Backend.
//
// # Error Handling
//
// Backend errors are wrapped with the operation and key. A missing or corrupt
// file backend document is not an error: the store starts empty, matching how
// carbook treats persisted data as a convenience rather than a requirement.
package kvstore
