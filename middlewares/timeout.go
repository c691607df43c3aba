package middlewares

import (
	"context"
	"time"

	"github.com/dmitrymomot/anvil/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that attaches a deadline to the request
// context. The action still runs on the request goroutine; operations that
// honor c.Context(), such as database queries and outbound calls, fail with
// context.DeadlineExceeded once the budget is spent, and that failure
// surfaces as the usual 500. Zero or negative timeouts fall back to
// DefaultTimeout.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		c.SetRequestContext(ctx)
		c.Defer(cancel)
		return nil
	})
}
