package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/cache"
)

func TestMemoryBasicOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string]()
	defer c.Close()

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "greeting", "hello", time.Minute))
	v, err := c.Get(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	ok, err := c.Has(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "greeting"))
	require.NoError(t, c.Delete(ctx, "greeting"), "deleting twice is fine")
	ok, err = c.Has(ctx, "greeting")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemoryTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("positive ttl expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "n", 1, 30*time.Millisecond))
		time.Sleep(60 * time.Millisecond)

		_, err := c.Get(ctx, "n")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](
			cache.WithDefaultTTL(30*time.Millisecond),
			cache.WithCleanupInterval(0),
		)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "n", 1, 0))
		time.Sleep(60 * time.Millisecond)

		_, err := c.Get(ctx, "n")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl pins the entry", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](
			cache.WithDefaultTTL(10*time.Millisecond),
			cache.WithCleanupInterval(0),
		)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "n", 1, -1))
		time.Sleep(50 * time.Millisecond)

		v, err := c.Get(ctx, "n")
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})

	t.Run("overwrite refreshes the deadline", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "n", 1, 20*time.Millisecond))
		require.NoError(t, c.Set(ctx, "n", 2, time.Minute))
		time.Sleep(50 * time.Millisecond)

		v, err := c.Get(ctx, "n")
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})
}

func TestMemoryLRUEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithMaxEntries(2))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

	// Touch "a" so "b" becomes the eviction candidate.
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", "3", time.Minute))

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	for _, key := range []string{"a", "c"} {
		_, err := c.Get(ctx, key)
		require.NoError(t, err, key)
	}
}

func TestMemoryEvictCallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithMaxEntries(1))
	defer c.Close()

	var mu sync.Mutex
	evicted := map[string]string{}
	c.SetEvictCallback(func(key, value string) {
		mu.Lock()
		defer mu.Unlock()
		evicted[key] = value
	})

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute)) // evicts a
	require.NoError(t, c.Delete(ctx, "b"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, evicted)
}

func TestMemorySweeper(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithCleanupInterval(10 * time.Millisecond))
	defer c.Close()

	var expired atomic.Int32
	c.SetEvictCallback(func(string, string) { expired.Add(1) })

	require.NoError(t, c.Set(ctx, "short", "x", 20*time.Millisecond))

	// The sweeper must collect the entry without any read touching it.
	require.Eventually(t, func() bool { return expired.Load() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestMemoryClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string]()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "close is idempotent")

	require.ErrorIs(t, c.Set(ctx, "k", "v2", time.Minute), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "k"), cache.ErrClosed)
	require.ErrorIs(t, c.Clear(ctx), cache.ErrClosed)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("hit skips the loader", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()
		require.NoError(t, c.Set(ctx, "n", 7, time.Minute))

		v, err := cache.GetOrSet(ctx, c, "n", func(context.Context) (int, time.Duration, error) {
			t.Fatal("loader must not run on a hit")
			return 0, 0, nil
		})
		require.NoError(t, err)
		require.Equal(t, 7, v)
	})

	t.Run("miss loads and stores", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		v, err := cache.GetOrSet(ctx, c, "n", func(context.Context) (int, time.Duration, error) {
			return 42, time.Minute, nil
		})
		require.NoError(t, err)
		require.Equal(t, 42, v)

		stored, err := c.Get(ctx, "n")
		require.NoError(t, err)
		require.Equal(t, 42, stored)
	})

	t.Run("loader error is not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		boom := errors.New("load failed")
		_, err := cache.GetOrSet(ctx, c, "n", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "n")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		var calls atomic.Int32
		start := make(chan struct{})
		results := make([]int, 10)

		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				v, err := cache.GetOrSet(ctx, c, "answer", func(context.Context) (int, time.Duration, error) {
					calls.Add(1)
					time.Sleep(100 * time.Millisecond)
					return 42, time.Minute, nil
				})
				assert.NoError(t, err)
				results[i] = v
			}()
		}
		close(start)
		wg.Wait()

		require.EqualValues(t, 1, calls.Load(), "loader must run once")
		for _, v := range results {
			require.Equal(t, 42, v)
		}
	})
}
