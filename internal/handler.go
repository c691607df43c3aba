package internal

// Action is the callable bound to a route. Extracted path parameters arrive
// positionally in pattern order; the Context carries everything else
// (request data, session, capabilities). The returned value goes through
// response normalization, so actions may return a *Response, a
// templ.Component, a map or struct (JSON), a string (HTML), or anything
// printable. A returned error is caught at the dispatch boundary and
// rendered as a 500.
//
// Example:
//
//	r.Get("/post/{id}", func(c *anvil.Context, params ...string) (any, error) {
//	    return c.View("posts/show", anvil.D{"ID": params[0]})
//	})
type Action func(c *Context, params ...string) (any, error)

// Next is the continuation handed to middleware. The Router sequences the
// chain itself, so the continuation given out is a no-op returning nil;
// middleware allows a request through by returning nil rather than by
// calling next. The parameter exists for middleware authored against the
// conventional shape.
type Next func(c *Context) *Response

// Middleware intercepts a request before the route action runs. Returning
// nil continues the chain; returning a Response short-circuits dispatch and
// sends that Response unchanged, skipping later middleware and the action.
type Middleware interface {
	Handle(c *Context, next Next) *Response
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(c *Context, next Next) *Response

func (f MiddlewareFunc) Handle(c *Context, next Next) *Response { return f(c, next) }

// Controller exposes a named action table so routes can reference methods as
// "Controller@action" strings. References resolve once, at route
// registration, against this table.
//
// Example:
//
//	type ContactsController struct {
//	    db *pgxpool.Pool
//	}
//
//	func (ct *ContactsController) Actions() map[string]anvil.Action {
//	    return map[string]anvil.Action{
//	        "index": ct.index,
//	        "show":  ct.show,
//	    }
//	}
type Controller interface {
	Actions() map[string]Action
}

// D is a convenience alias for template and JSON payloads.
type D = map[string]any
