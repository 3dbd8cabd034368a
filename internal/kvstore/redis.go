package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "carbook:"

// Redis stores keys in a Redis database under a common prefix.
type Redis struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

var _ Store = (*Redis)(nil)

// OpenRedis connects to addr and pings it before returning.
func OpenRedis(ctx context.Context, addr, password string, db int, prefix string) (*Redis, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("kvstore: redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kvstore: connect to redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

// NewRedis wraps an existing client. An empty prefix uses "carbook:".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r.closed.Load() {
		return "", false, ErrClosed
	}
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore: redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.MultiRemove(ctx, key)
}

// MultiRemove issues a single DEL, which Redis applies atomically.
func (r *Redis) MultiRemove(ctx context.Context, keys ...string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("kvstore: redis del: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.client.Close()
}
