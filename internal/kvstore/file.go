package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultFilePath = "~/.local/share/carbook/store.toml"

// File keeps every key in one TOML document. Each mutation rewrites the
// document through a temp file and rename, so MultiRemove is atomic. Reads
// pick up documents replaced by other processes.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	seen   os.FileInfo
	closed bool
}

var _ Store = (*File)(nil)

type fileDoc struct {
	Values map[string]string `toml:"values"`
}

// DefaultFilePath returns the default location of the file backend.
func DefaultFilePath() string {
	return defaultFilePath
}

// OpenFile loads path, creating nothing until the first write. A missing or
// unparsable document starts empty.
func OpenFile(path string) (*File, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: resolve path: %w", err)
	}

	f := &File{path: resolved, values: make(map[string]string)}
	if err := f.syncLocked(); err != nil {
		return nil, err
	}
	return f, nil
}

// syncLocked reloads the document if it changed on disk since it was last
// read or written.
func (f *File) syncLocked() error {
	info, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		if f.seen != nil {
			f.values = make(map[string]string)
			f.seen = nil
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("kvstore: stat %s: %w", f.path, err)
	}
	if f.seen != nil && os.SameFile(f.seen, info) &&
		f.seen.ModTime().Equal(info.ModTime()) && f.seen.Size() == info.Size() {
		return nil
	}

	bytes, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("kvstore: read %s: %w", f.path, err)
	}
	values := make(map[string]string)
	var doc fileDoc
	if err := toml.Unmarshal(bytes, &doc); err == nil {
		for k, v := range doc.Values {
			values[k] = v
		}
	}
	f.values = values
	f.seen = info
	return nil
}

// Path returns the resolved document path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	if err := f.syncLocked(); err != nil {
		return "", false, err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err := f.syncLocked(); err != nil {
		return err
	}

	next := cloneValues(f.values)
	next[key] = value
	if err := f.writeLocked(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *File) Remove(ctx context.Context, key string) error {
	return f.MultiRemove(ctx, key)
}

func (f *File) MultiRemove(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err := f.syncLocked(); err != nil {
		return err
	}

	next := cloneValues(f.values)
	changed := false
	for _, k := range keys {
		if _, ok := next[k]; ok {
			delete(next, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := f.writeLocked(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) writeLocked(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kvstore: create dir: %w", err)
	}

	bytes, err := toml.Marshal(fileDoc{Values: values})
	if err != nil {
		return fmt.Errorf("kvstore: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.toml")
	if err != nil {
		return fmt.Errorf("kvstore: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kvstore: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("kvstore: replace %s: %w", f.path, err)
	}
	if info, err := os.Stat(f.path); err == nil {
		f.seen = info
	}
	return nil
}

func cloneValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultFilePath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
