package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
	"github.com/dmitrymomot/anvil/pkg/cache"
)

func throttledRequest(t *testing.T, mw internal.Middleware, ip string) *internal.Response {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", ip)
	return runFiltered(t, mw, r, nil)
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	t.Run("admits up to the limit and counts remaining down", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(3, time.Minute)
		for _, wantRemaining := range []string{"2", "1", "0"} {
			resp := throttledRequest(t, mw, "198.51.100.1")
			assert.Equal(t, http.StatusOK, resp.StatusCode())
			assert.Equal(t, "3", resp.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, wantRemaining, resp.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("rejects over the limit with retry-after", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(1, time.Minute)
		throttledRequest(t, mw, "198.51.100.2")

		resp := throttledRequest(t, mw, "198.51.100.2")
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
		assert.Equal(t, "0", resp.Header().Get("X-RateLimit-Remaining"))
		assert.Contains(t, string(resp.Body()), "Too Many Requests")

		retry := resp.Header().Get("Retry-After")
		require.NotEmpty(t, retry)
		assert.NotEqual(t, "0", retry)
	})

	t.Run("json clients get a json error", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(1, time.Minute)
		throttledRequest(t, mw, "198.51.100.3")

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Real-IP", "198.51.100.3")
		r.Header.Set("Accept", "application/json")
		resp := runFiltered(t, mw, r, nil)

		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
		assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"too many requests"}`, string(resp.Body()))
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(1, time.Minute)
		assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "198.51.100.4").StatusCode())
		assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "198.51.100.5").StatusCode())
		assert.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "198.51.100.4").StatusCode())
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(1, 50*time.Millisecond)
		assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "198.51.100.6").StatusCode())
		assert.Equal(t, http.StatusTooManyRequests, throttledRequest(t, mw, "198.51.100.6").StatusCode())

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, http.StatusOK, throttledRequest(t, mw, "198.51.100.6").StatusCode())
	})

	t.Run("custom key attributes requests", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.Throttle(1, time.Minute,
			middlewares.WithThrottleKey(func(c *internal.Context) string {
				return c.Request().Header.Get("X-API-Key")
			}),
		)

		keyed := func(key string) *internal.Response {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if key != "" {
				r.Header.Set("X-API-Key", key)
			}
			return runFiltered(t, mw, r, nil)
		}

		assert.Equal(t, http.StatusOK, keyed("k1").StatusCode())
		assert.Equal(t, http.StatusTooManyRequests, keyed("k1").StatusCode())
		assert.Equal(t, http.StatusOK, keyed("k2").StatusCode())

		// Unattributable requests pass uncounted.
		assert.Equal(t, http.StatusOK, keyed("").StatusCode())
		assert.Equal(t, http.StatusOK, keyed("").StatusCode())
	})

	t.Run("custom store receives the counters", func(t *testing.T) {
		t.Parallel()

		store := cache.NewMemory[middlewares.ThrottleHit]()
		defer store.Close()

		mw := middlewares.Throttle(5, time.Minute, middlewares.WithThrottleStore(store))
		throttledRequest(t, mw, "198.51.100.7")
		throttledRequest(t, mw, "198.51.100.7")

		hit, err := store.Get(context.Background(), "198.51.100.7")
		require.NoError(t, err)
		assert.Equal(t, 2, hit.Count)
		assert.WithinDuration(t, time.Now().Add(time.Minute), hit.Reset, 5*time.Second)
	})
}
