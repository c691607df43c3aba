package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/anvil/internal"
)

// unauthorized answers a request that failed authentication. API clients
// get a 401 JSON body carrying the reason; browsers are redirected to
// loginURL when one is configured and get the plain 401 page otherwise.
func unauthorized(c *internal.Context, message, loginURL string) *internal.Response {
	if c.WantsJSON() {
		if resp, err := internal.JSONResponse(http.StatusUnauthorized, map[string]string{"error": message}); err == nil {
			return resp
		}
	}
	if loginURL != "" {
		return c.Redirect(loginURL)
	}
	return internal.ErrorResponse(http.StatusUnauthorized)
}
