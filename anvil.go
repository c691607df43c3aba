package anvil

import (
	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/cookie"
	"github.com/dmitrymomot/anvil/pkg/csrf"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/queue"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/storage"
	"github.com/dmitrymomot/anvil/pkg/view"
)

// Type aliases - public API
type (
	// App wires the router to the application's capabilities and serves HTTP.
	// App is immutable after creation - all configuration is done via New().
	App = internal.App

	// Router registers routes and dispatches requests to them.
	Router = internal.Router

	// Route binds one URI pattern and verb set to an action.
	Route = internal.Route

	// Context carries one request through middleware and the action.
	Context = internal.Context

	// Response is the outbound value carrier produced by dispatch.
	Response = internal.Response

	// Action is the callable bound to a route.
	Action = internal.Action

	// Next is the continuation handed to middleware.
	Next = internal.Next

	// Middleware intercepts a request before the route action runs.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a plain function to the Middleware interface.
	MiddlewareFunc = internal.MiddlewareFunc

	// Controller exposes a named action table for "Controller@method" routes.
	Controller = internal.Controller

	// D is a convenience alias for template and JSON payloads.
	D = internal.D

	// GroupAttrs carries the prefix and middleware a route group applies.
	GroupAttrs = internal.GroupAttrs

	// Terminated carries a ready Response out of an action that cannot
	// continue. Dispatch unwraps it and sends the Response as-is.
	Terminated = internal.Terminated

	// ValidationErrors is the per-field error collection produced by
	// c.Validate and c.Bind.
	ValidationErrors = internal.ValidationErrors

	// Option configures the application.
	Option = internal.Option

	// RouterOption configures a standalone Router.
	RouterOption = internal.RouterOption

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// ViewOption configures the template engine.
	ViewOption = view.Option

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// CSRFOption configures the CSRF token manager.
	CSRFOption = csrf.Option

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// Storage is the file storage interface behind c.Upload and c.Storage.
	Storage = storage.Storage

	// Container is the service container used to resolve controllers.
	Container = container.Container

	// JobOption configures the job manager.
	JobOption = queue.Option

	// EnqueueOption configures a single enqueued job.
	EnqueueOption = queue.EnqueueOption

	// EnqueuerOption configures the job enqueuer.
	EnqueuerOption = queue.EnqueuerOption

	// JobManager handles background job processing.
	JobManager = queue.Manager

	// JobEnqueuer provides job enqueueing without worker processing.
	JobEnqueuer = queue.Enqueuer
)

// StatusPageExpired is the status CSRF protection answers with when the
// submitted token does not match the session token.
const StatusPageExpired = internal.StatusPageExpired

// Constructors

// New creates an application from the given options. Route registration
// callbacks run last, after controllers and middleware are registered, so
// option order does not matter.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithController("ContactsController", NewContactsController(pool)),
//	    anvil.WithMiddleware("auth", middlewares.RequireAuth()),
//	    anvil.WithRoutes(func(r *anvil.Router) {
//	        r.Get("/contacts", "ContactsController@index").Name("contacts.index")
//	    }),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewRouter returns an empty standalone Router. Most applications declare
// routes through New and WithRoutes instead; a bare Router is for embedding
// dispatch in custom servers and for tests.
func NewRouter(opts ...RouterOption) *Router {
	return internal.NewRouter(opts...)
}

// NewContainer creates an empty service container for WithContainer.
func NewContainer() *Container {
	return container.New()
}

// Responses

// NewResponse creates a Response with the given status and body. The caller
// is expected to set a Content-Type; the typed constructors below do.
func NewResponse(status int, body []byte) *Response {
	return internal.NewResponse(status, body)
}

// HTMLResponse wraps markup in a text/html response.
func HTMLResponse(status int, body string) *Response {
	return internal.HTMLResponse(status, body)
}

// TextResponse wraps plain text in a text/plain response.
func TextResponse(status int, body string) *Response {
	return internal.TextResponse(status, body)
}

// JSONResponse marshals v into an application/json response.
func JSONResponse(status int, v any) (*Response, error) {
	return internal.JSONResponse(status, v)
}

// RedirectResponse produces a Location redirect. Status defaults to 302 when
// the given code is not a redirect code.
func RedirectResponse(status int, location string) *Response {
	return internal.RedirectResponse(status, location)
}

// NoContentResponse produces an empty 204 response.
func NoContentResponse() *Response {
	return internal.NoContentResponse()
}

// ErrorResponse renders the framework's standard error page for any status,
// e.g. ErrorResponse(403) for a denied request.
func ErrorResponse(status int) *Response {
	return internal.ErrorResponse(status)
}

// PageExpiredResponse is the standard 419 answer used by CSRF protection.
func PageExpiredResponse() *Response {
	return internal.PageExpiredResponse()
}

// Terminate wraps a Response so an action can end the request early.
// Typical use is `return nil, anvil.Terminate(resp)` from inside a helper
// that has already decided the outcome.
func Terminate(resp *Response) error {
	return internal.Terminate(resp)
}

// Typed helpers

// ContextValue retrieves a typed value stored on the request context,
// returning the zero value on a miss or type mismatch.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := anvil.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c *Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param retrieves a typed route parameter. Unparseable values collapse to
// the zero value.
//
// Example:
//
//	id := anvil.Param[int](c, "id")
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c *Context, name string) T {
	return internal.Param[T](c, name)
}

// Query retrieves a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c *Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault retrieves a typed query parameter, falling back to
// defaultValue when the parameter is empty or unparseable.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c *Context, name string, defaultValue T) T {
	return internal.QueryDefault[T](c, name, defaultValue)
}

// SessionValue retrieves a typed session value.
// Returns an error if the key does not exist or the type does not match.
//
// Example:
//
//	theme, err := anvil.SessionValue[string](sess, "theme")
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr retrieves a typed session value, falling back to a default.
//
// Example:
//
//	theme := anvil.SessionValueOr(sess, "theme", "light")
func SessionValueOr[T any](sess *Session, key string, defaultVal T) T {
	return session.ValueOr(sess, key, defaultVal)
}

// Routing errors, raised at registration time or surfaced by Dispatch.
var (
	ErrRouteNotFound      = internal.ErrRouteNotFound
	ErrMiddlewareNotFound = internal.ErrMiddlewareNotFound
	ErrActionResolution   = internal.ErrActionResolution
	ErrInvalidAction      = internal.ErrInvalidAction
	ErrNoMethods          = internal.ErrNoMethods
	ErrDuplicateRouteName = internal.ErrDuplicateRouteName
	ErrInvalidPattern     = internal.ErrInvalidPattern
)
