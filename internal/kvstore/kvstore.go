package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("kvstore: store is closed")

// Store is a string-keyed durable store. Implementations must make
// MultiRemove atomic: either every key is removed or none is.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options select and configure a backend.
type Options struct {
	Backend string

	// Path is the TOML file for the file backend or the database file for
	// the sqlite backend.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the backend named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return OpenFile(opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
}
