package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL key-value store generic over the value type. Set accepts
// three TTL shapes: a positive duration expires the entry after that long,
// zero falls back to the backend's default TTL, and a negative duration
// pins the entry until it is deleted or evicted.
type Cache[V any] interface {
	// Get returns the value under key, or ErrNotFound when the key is
	// absent or already expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete drops key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether key holds a live entry.
	Has(ctx context.Context, key string) (bool, error)

	// Clear drops every entry this cache owns.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Marshaler converts values to and from the byte form a remote backend
// stores. Redis uses one; the in-memory cache keeps values as-is.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// jsonMarshaler is the default codec for remote backends.
type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var flights singleflight.Group

// GetOrSet returns the cached value under key, computing and storing it via
// load on a miss. Concurrent misses for the same key on the same cache
// collapse into a single load call; the others wait and share its result.
// When load fails nothing is stored and every waiter gets the error.
//
// load returns the value together with the TTL to cache it under, which
// follows the Set TTL rules.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	// The flight key carries the cache identity and value type so separate
	// caches reusing a key never exchange results.
	flightKey := fmt.Sprintf("%T/%p/%s", c, c, key)

	v, err, _ := flights.Do(flightKey, func() (any, error) {
		val, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		// Only the loading goroutine writes back; waiters just consume.
		_ = c.Set(ctx, key, val, ttl)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
