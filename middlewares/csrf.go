package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/anvil/internal"
)

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	// Exempt lists path prefixes skipped entirely, e.g. "/webhooks/" for
	// endpoints called by third parties that cannot carry a session token.
	Exempt []string
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFExempt excludes paths from verification by prefix.
func WithCSRFExempt(prefixes ...string) CSRFOption {
	return func(cfg *CSRFConfig) {
		cfg.Exempt = append(cfg.Exempt, prefixes...)
	}
}

// CSRF returns middleware that verifies the session CSRF token on every
// state-changing request. GET, HEAD, and OPTIONS pass untouched. The token
// arrives in the X-CSRF-Token header or the _token form field; templates
// embed it with the csrf_field helper. Mismatches are answered with 419
// Page Expired. Requires sessions to be configured.
func CSRF(opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		switch c.Method() {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return nil
		}

		for _, prefix := range cfg.Exempt {
			if strings.HasPrefix(c.Path(), prefix) {
				return nil
			}
		}

		if c.VerifyCSRF() {
			return nil
		}

		if c.WantsJSON() {
			if resp, err := internal.JSONResponse(internal.StatusPageExpired, map[string]string{"error": "csrf token mismatch"}); err == nil {
				return resp
			}
		}
		return internal.PageExpiredResponse()
	})
}
