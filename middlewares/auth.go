package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/anvil/internal"
)

// sessionKeyIntended stores the URL an unauthenticated user tried to reach,
// so the login action can send them back after signing in.
const sessionKeyIntended = "_intended_url"

// AuthConfig configures the authentication guard.
type AuthConfig struct {
	// LoginURL is where unauthenticated browser requests are redirected.
	// Empty disables the redirect and renders the plain 401 page instead.
	LoginURL string
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithLoginURL sets the redirect target for unauthenticated browser
// requests. Defaults to "/login".
func WithLoginURL(url string) AuthOption {
	return func(cfg *AuthConfig) {
		cfg.LoginURL = url
	}
}

// RequireAuth returns middleware that only lets authenticated sessions
// through. Browsers are redirected to the login page with the requested URL
// remembered for after sign-in; API clients receive a 401 JSON body.
func RequireAuth(opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{LoginURL: "/login"}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		if c.IsAuthenticated() {
			return nil
		}

		// Only remember navigations; form posts would replay badly.
		if sess := c.Session(); sess != nil && c.Method() == http.MethodGet {
			sess.SetValue(sessionKeyIntended, c.Path())
		}

		return unauthorized(c, "authentication required", cfg.LoginURL)
	})
}

// GuestConfig configures the guest-only guard.
type GuestConfig struct {
	// RedirectURL is where authenticated users are sent when they hit a
	// guest-only page such as the login form.
	RedirectURL string
}

// GuestOption configures GuestConfig.
type GuestOption func(*GuestConfig)

// WithGuestRedirect sets where already-authenticated users are redirected.
// Defaults to "/".
func WithGuestRedirect(url string) GuestOption {
	return func(cfg *GuestConfig) {
		cfg.RedirectURL = url
	}
}

// RequireGuest returns middleware for pages that only make sense signed
// out, such as login and registration forms. Authenticated users are
// redirected away.
func RequireGuest(opts ...GuestOption) internal.Middleware {
	cfg := &GuestConfig{RedirectURL: "/"}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		if !c.IsAuthenticated() {
			return nil
		}
		return c.Redirect(cfg.RedirectURL)
	})
}

// IntendedURL consumes the URL remembered by RequireAuth, returning
// fallback when none is stored. Login actions call it to send the user back
// where they were headed:
//
//	if err := c.Authenticate(user.ID); err != nil {
//	    return nil, err
//	}
//	return c.Redirect(middlewares.IntendedURL(c, "/dashboard")), nil
func IntendedURL(c *internal.Context, fallback string) string {
	sess := c.Session()
	if sess == nil {
		return fallback
	}
	v, ok := sess.GetValue(sessionKeyIntended)
	if !ok {
		return fallback
	}
	sess.DeleteValue(sessionKeyIntended)
	target, ok := v.(string)
	if !ok || target == "" {
		return fallback
	}
	return target
}
