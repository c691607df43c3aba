// Package internal provides the core types and implementation for the anvil
// framework.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/anvil" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Owns the HTTP server loop, session lifecycle, and graceful shutdown
//   - Context: Per-request capability surface handed to middleware and actions
//   - Router: Declares routes, groups, names, and middleware assignments
//   - Route: One URI pattern and verb set bound to an action
//   - Controller: Exposes a named action table for "Controller@action" references
//   - Action: The callable bound to a route; returns a value and an error
//   - Middleware: Pre-action filter that either passes or answers the request
//   - Response: Buffered status, headers, cookies, and body written at the end
//
// # Dispatch Pipeline
//
// Every request runs the same sequence: match a route, resolve the route's
// middleware names against the registry, run the filters in order, run the
// action, then normalize whatever came back into a Response. Nothing touches
// the network until the pipeline finishes, which is what lets middleware
// stage headers and queue cookies for responses that do not exist yet.
//
// Middleware passes a request by returning nil and answers it early by
// returning a Response:
//
//	anvil.MiddlewareFunc(func(c *anvil.Context, next anvil.Next) *anvil.Response {
//	    if !c.IsAuthenticated() {
//	        return c.Redirect("/login")
//	    }
//	    return nil
//	})
//
// A short-circuit Response is sent unchanged; later filters and the action
// never run.
//
// # Response Normalization
//
// Actions return (any, error). The returned value is normalized: a *Response
// passes through, a templ.Component renders to HTML, strings and []byte
// become text/html, maps, structs, and slices are encoded as JSON, and nil
// becomes an empty 200. A returned error is caught at the dispatch
// boundary and rendered as a 500 page, so one panicking or failing action
// cannot take the process down.
//
// # Application Structure
//
// Create an application with New() and configure it using options:
//
//	app := internal.New(
//	    internal.WithController("contacts", contacts),
//	    internal.WithMiddleware("auth", middlewares.RequireAuth()),
//	    internal.WithSession(session.NewPostgresStore(pool)),
//	    internal.WithRoutes(registerRoutes),
//	)
//
// # Controllers and Routes
//
// Routes bind either closures or controller action references. A reference
// like "contacts@show" resolves once, at registration, against the
// controller's action table; a typo fails at startup rather than on the
// first matching request:
//
//	func registerRoutes(r *internal.Router) {
//	    r.Get("/contacts", "contacts@index").Name("contacts.index")
//	    r.Get("/contacts/{id}", "contacts@show").Name("contacts.show")
//	    r.Group(internal.GroupAttrs{Prefix: "/admin", Middleware: []string{"auth"}}, func(r *internal.Router) {
//	        r.Get("/dashboard", "admin@dashboard")
//	    })
//	}
//
// Controllers receive dependencies via constructor injection, not context
// helpers. This keeps action logic explicit and testable.
//
// # Sessions and Identity
//
// With a session store configured, the App loads the session before dispatch
// and persists it after, so middleware and actions share one live value.
// Context identity shortcuts ride on that session:
//
//   - UserID() string: the authenticated user's ID, or empty string
//   - IsAuthenticated() bool: whether a user is bound to the session
//   - Authenticate(id) / Logout(): bind or destroy, with token rotation
//
// Fresh sessions that were never written to are skipped at persist time, so
// drive-by requests do not churn the store.
//
// # Request Handling
//
// Each action receives a *Context with helpers for common request patterns:
//
//	func (ct *ContactsController) store(c *internal.Context, _ ...string) (any, error) {
//	    var form ContactForm
//	    verrs, err := c.Bind(&form)
//	    if err != nil {
//	        return nil, err
//	    }
//	    if verrs.Any() {
//	        return c.Back(), nil
//	    }
//	    // Process the contact...
//	    return c.RedirectRoute("contacts.index", nil)
//	}
//
// Bind decodes, sanitizes, and validates in one pass; Validate offers the
// rule-string form with automatic redirect-back-with-errors for browser
// clients and 422 JSON for API clients.
//
// # Server Runtime
//
// Start the server with Run(), which installs signal handling and drains
// in-flight requests on shutdown:
//
//	// Single app
//	err := app.Run(":8080")
//
//	// Multi-domain
//	err := internal.Run(
//	    internal.Domain("api.example.com", apiApp),
//	    internal.Domain("*.example.com", tenantApp),
//	    internal.Address(":8080"),
//	)
//
// # Design Principles
//
//   - Buffered responses: nothing writes to the wire until dispatch completes
//   - Fail at startup: route names, action references, and middleware names
//     resolve during registration
//   - Constructor injection: all dependencies visible in main.go
//   - Framework, not boilerplate: provides utilities, not business logic
//
// See the anvil package documentation for the public API and usage examples.
package internal
