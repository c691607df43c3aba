package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisConfig struct {
	prefix     string
	defaultTTL time.Duration
}

// RedisOption tunes the Redis-backed cache.
type RedisOption func(*redisConfig)

// WithRedisDefaultTTL sets the expiry applied when Set receives a zero TTL.
// Default 1h.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(cfg *redisConfig) { cfg.defaultTTL = d }
}

// WithPrefix namespaces keys as "prefix:key". Set one whenever several
// caches share a Redis database; it also scopes Clear to this cache's keys
// instead of flushing the whole database.
func WithPrefix(prefix string) RedisOption {
	return func(cfg *redisConfig) { cfg.prefix = prefix }
}

// Redis is a Cache backed by a shared Redis instance, for values that must
// survive restarts or be visible across processes. Values pass through the
// configured Marshaler.
type Redis[V any] struct {
	client     redis.UniversalClient
	codec      Marshaler[V]
	prefix     string
	defaultTTL time.Duration
}

// NewRedis wraps client in a Cache. codec may be nil, which selects JSON;
// pass a custom Marshaler for formats like msgpack or protobuf.
//
//	c := cache.NewRedis[User](client, nil,
//	    cache.WithPrefix("users"),
//	    cache.WithRedisDefaultTTL(30*time.Minute),
//	)
func NewRedis[V any](client redis.UniversalClient, codec Marshaler[V], opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}
	if codec == nil {
		codec = jsonMarshaler[V]{}
	}
	return &Redis[V]{
		client:     client,
		codec:      codec,
		prefix:     cfg.prefix,
		defaultTTL: cfg.defaultTTL,
	}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return r.codec.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	// Negative means pinned; Redis spells that as expiration 0.
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes this cache's keys. With a prefix it walks them via SCAN, so
// the server is never blocked; without one it has no way to tell its keys
// apart and flushes the whole database.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op: the client is shared and owned by the caller.
func (r *Redis[V]) Close() error {
	return nil
}

func (r *Redis[V]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Cache[any] = (*Redis[any])(nil)
