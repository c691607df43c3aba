package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound is returned by reverse routing when no route is
	// registered under the requested name. It is surfaced to the caller;
	// dispatch never produces it.
	ErrRouteNotFound = errors.New("anvil: route not found")

	// ErrMiddlewareNotFound is returned by Dispatch when a route references
	// a middleware name that was never registered. It is fatal for the
	// request and propagates out of Dispatch unrecovered.
	ErrMiddlewareNotFound = errors.New("anvil: middleware not found")

	// ErrActionResolution indicates a controller reference that could not be
	// resolved: unknown controller name, a controller that exposes no action
	// table, or a missing method. Raised during route registration.
	ErrActionResolution = errors.New("anvil: action resolution failed")

	// ErrInvalidAction indicates a route action that is neither a callable
	// nor a "Controller@method" reference string. Raised during route
	// registration.
	ErrInvalidAction = errors.New("anvil: invalid action")

	// ErrNoMethods indicates a route registered with an empty method set.
	ErrNoMethods = errors.New("anvil: route requires at least one method")

	// ErrDuplicateRouteName indicates two routes registered under the same
	// name.
	ErrDuplicateRouteName = errors.New("anvil: duplicate route name")

	// ErrInvalidPattern indicates a URI pattern that cannot be compiled,
	// e.g. one that names the same parameter twice.
	ErrInvalidPattern = errors.New("anvil: invalid route pattern")
)

// Terminated carries a ready Response out of an action that cannot continue,
// such as validation failing and redirecting back with errors. Dispatch
// unwraps it and returns the Response as-is instead of reporting a failure.
type Terminated struct {
	Response *Response
}

func (t *Terminated) Error() string {
	if t.Response == nil {
		return "anvil: request terminated"
	}
	return fmt.Sprintf("anvil: request terminated with status %d", t.Response.StatusCode())
}

// Terminate wraps a Response so an action can end the request early.
// Typical use is `return nil, anvil.Terminate(resp)` from inside a helper
// that has already decided the outcome.
func Terminate(resp *Response) error {
	return &Terminated{Response: resp}
}

// asTerminated extracts a Terminated from an error chain.
func asTerminated(err error) (*Terminated, bool) {
	var t *Terminated
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}
