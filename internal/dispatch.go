package internal

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"

	"github.com/a-h/templ"
)

// panicError wraps a recovered panic with the stack captured at the point
// of recovery.
type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

// Dispatch resolves and runs the route for the request carried by c and
// always produces a response for route-level outcomes:
//
//   - no route matches: a 404 response, nil error
//   - a middleware or the action returns a response: that response
//   - the action result: normalized into a response
//   - the action fails or panics: a 500 response (diagnostic page in debug
//     mode), nil error
//   - a Terminated error: the response it carries, nil error
//
// The only error Dispatch returns is ErrMiddlewareNotFound, for a route
// naming a middleware missing from the registry. That is a wiring mistake
// in the application, not a request-level failure, so it is surfaced to the
// caller instead of being converted to a 500.
//
// Headers staged on the Context via SetHeader/AddHeader are merged into the
// outgoing Response last, whichever path produced it.
func (r *Router) Dispatch(c *Context) (*Response, error) {
	resp, err := r.dispatch(c)
	if resp != nil {
		c.applyPendingHeaders(resp)
	}
	return resp, err
}

func (r *Router) dispatch(c *Context) (*Response, error) {
	rt := r.find(c.Method(), c.Path())
	if rt == nil {
		return notFoundResponse(), nil
	}

	resp, err := r.invoke(c, rt)
	if err != nil {
		if errors.Is(err, ErrMiddlewareNotFound) {
			return nil, err
		}
		if t, ok := asTerminated(err); ok {
			if t.Response == nil {
				return HTMLResponse(http.StatusOK, ""), nil
			}
			return t.Response, nil
		}
		var stack []byte
		var pe *panicError
		if errors.As(err, &pe) {
			stack = pe.stack
		} else {
			stack = debug.Stack()
		}
		r.logger.ErrorContext(c.Context(), "request failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"route", rt.String(),
		)
		return internalErrorResponse(r.debug, err, stack), nil
	}
	if resp == nil {
		resp = HTMLResponse(http.StatusOK, "")
	}
	return resp, nil
}

// noopNext is the continuation handed to every middleware. The Router
// sequences the chain itself, so continuing is expressed by returning nil,
// not by calling next.
var noopNext = Next(func(*Context) *Response { return nil })

// invoke runs steps three through six of a dispatch: parameter extraction,
// middleware resolution, the filter pass, the action, and result
// normalization. Panics anywhere inside become a panicError.
func (r *Router) invoke(c *Context, rt *Route) (resp *Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = nil
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()

	c.setParams(rt.ParamNames(), rt.Params(c.Path()))

	names := rt.MiddlewareNames()
	mws := make([]Middleware, len(names))
	for i, name := range names {
		m, ok := r.middleware[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMiddlewareNotFound, name)
		}
		mws[i] = m
	}

	// Middleware acts as an ordered pre-filter pass: the first non-nil
	// Response is sent unchanged and the action never runs.
	for _, m := range mws {
		if out := m.Handle(c, noopNext); out != nil {
			return out, nil
		}
	}

	out, err := rt.action(c, c.Params()...)
	if err != nil {
		return nil, err
	}
	return r.normalize(c, out)
}

// normalize converts an action's return value into a Response:
//
//	*Response       unchanged
//	templ.Component rendered to HTML
//	map/struct/slice (and pointers to them) encoded as JSON
//	string, []byte, fmt.Stringer  as HTML
//	anything else   fmt.Sprint, as HTML
//
// A nil result becomes an empty 200. Note that []byte is HTML, not JSON,
// despite being a slice; raw bytes are presumed to be markup the caller
// already produced.
func (r *Router) normalize(c *Context, out any) (*Response, error) {
	switch v := out.(type) {
	case nil:
		return HTMLResponse(http.StatusOK, ""), nil
	case *Response:
		if v == nil {
			return HTMLResponse(http.StatusOK, ""), nil
		}
		return v, nil
	case templ.Component:
		var buf bytes.Buffer
		if err := v.Render(c.Context(), &buf); err != nil {
			return nil, fmt.Errorf("anvil: render component: %w", err)
		}
		return HTMLResponse(http.StatusOK, buf.String()), nil
	case string:
		return HTMLResponse(http.StatusOK, v), nil
	case []byte:
		return HTMLResponse(http.StatusOK, string(v)), nil
	}

	rv := reflect.ValueOf(out)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return HTMLResponse(http.StatusOK, ""), nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return JSONResponse(http.StatusOK, out)
	}

	if s, ok := out.(fmt.Stringer); ok {
		return HTMLResponse(http.StatusOK, s.String()), nil
	}
	return HTMLResponse(http.StatusOK, fmt.Sprint(out)), nil
}
