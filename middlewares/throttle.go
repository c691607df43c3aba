package middlewares

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/clientip"
)

// ThrottleHit is the per-client counter kept in the throttle store. Fields
// are exported so the Redis cache backend can serialize it.
type ThrottleHit struct {
	Count int       `json:"count"`
	Reset time.Time `json:"reset"`
}

// ThrottleConfig configures the throttle middleware.
type ThrottleConfig struct {
	// Store keeps the counters. Defaults to an in-process memory cache;
	// pass a Redis-backed cache to share limits across instances.
	Store cache.Cache[ThrottleHit]

	// Key attributes a request to a client. Defaults to the client IP.
	// Returning "" lets the request through uncounted.
	Key func(c *internal.Context) string
}

// ThrottleOption configures ThrottleConfig.
type ThrottleOption func(*ThrottleConfig)

// WithThrottleStore replaces the default in-memory counter store.
func WithThrottleStore(store cache.Cache[ThrottleHit]) ThrottleOption {
	return func(cfg *ThrottleConfig) { cfg.Store = store }
}

// WithThrottleKey replaces per-IP attribution, e.g. keying on the
// authenticated user instead:
//
//	middlewares.WithThrottleKey(func(c *anvil.Context) string {
//	    return anvil.ContextValue[string](c, userKey{})
//	})
func WithThrottleKey(fn func(c *internal.Context) string) ThrottleOption {
	return func(cfg *ThrottleConfig) { cfg.Key = fn }
}

// Throttle returns middleware that admits at most limit requests per client
// within a fixed window, answering the rest with 429 Too Many Requests.
// Every response carries X-RateLimit-Limit and X-RateLimit-Remaining;
// rejected ones add Retry-After with the seconds left in the window.
//
//	r.Group(func(api *anvil.Router) {
//	    api.Get("/search", "Search@query")
//	}).Middleware("throttle")
//
//	app := anvil.New(
//	    anvil.WithMiddleware("throttle", middlewares.Throttle(60, time.Minute)),
//	)
func Throttle(limit int, window time.Duration, opts ...ThrottleOption) internal.Middleware {
	cfg := &ThrottleConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Store == nil {
		cfg.Store = cache.NewMemory[ThrottleHit](cache.WithCleanupInterval(time.Minute))
	}
	if cfg.Key == nil {
		cfg.Key = func(c *internal.Context) string { return clientip.Get(c.Request()) }
	}

	// The store has no atomic increment, so a mutex serializes the
	// read-modify-write. With a shared Redis store, instances still count
	// independently within the race window; limits stay approximate there.
	var mu sync.Mutex

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		key := cfg.Key(c)
		if key == "" {
			return nil
		}

		ctx := c.Request().Context()
		now := time.Now()

		mu.Lock()
		hit, err := cfg.Store.Get(ctx, key)
		if err != nil || !now.Before(hit.Reset) {
			hit = ThrottleHit{Reset: now.Add(window)}
		}
		hit.Count++
		_ = cfg.Store.Set(ctx, key, hit, time.Until(hit.Reset))
		mu.Unlock()

		c.SetHeader("X-RateLimit-Limit", strconv.Itoa(limit))
		c.SetHeader("X-RateLimit-Remaining", strconv.Itoa(max(limit-hit.Count, 0)))

		if hit.Count <= limit {
			return nil
		}

		retry := int(time.Until(hit.Reset).Seconds() + 1)
		c.SetHeader("Retry-After", strconv.Itoa(max(retry, 1)))
		if c.WantsJSON() {
			if resp, err := internal.JSONResponse(http.StatusTooManyRequests, map[string]string{"error": "too many requests"}); err == nil {
				return resp
			}
		}
		return internal.ErrorResponse(http.StatusTooManyRequests)
	})
}
