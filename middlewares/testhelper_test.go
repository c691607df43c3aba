package middlewares_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
)

// okAction answers with a marker body so tests can tell whether the filter
// let the request through.
func okAction(c *internal.Context, _ ...string) (any, error) {
	return "action ran", nil
}

// runFiltered dispatches r through a fresh router with mw assigned to a
// route registered at r's path. A nil action defaults to okAction.
func runFiltered(t *testing.T, mw internal.Middleware, r *http.Request, action internal.Action) *internal.Response {
	t.Helper()
	return runFilteredContext(t, mw, internal.NewContext(r), action)
}

// runFilteredContext is runFiltered for callers that prepare the Context
// themselves, typically to inject a session fixture.
func runFilteredContext(t *testing.T, mw internal.Middleware, c *internal.Context, action internal.Action) *internal.Response {
	t.Helper()
	if action == nil {
		action = okAction
	}
	router := internal.NewRouter()
	router.RegisterMiddleware("filter", mw)
	router.Any(c.Path(), action).Middleware("filter")

	resp, err := router.Dispatch(c)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}
