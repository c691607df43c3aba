package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/container"
)

// allMethods is the verb set covered by Any.
var allMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// GroupAttrs carries the attributes a route group applies to routes
// registered inside its callback. Only the innermost enclosing group's
// attributes apply; nesting does not accumulate prefixes or middleware.
type GroupAttrs struct {
	Prefix     string
	Middleware []string
}

// Router owns the route tables, the middleware and controller registries,
// and reverse routing. Registration is not safe for concurrent use and is
// expected to happen during application startup; dispatch only reads.
//
// Registration failures (unknown controllers, malformed action references,
// duplicate route names, invalid patterns) panic so that a misconfigured
// application fails at startup rather than at request time.
type Router struct {
	routes      map[string][]*Route
	order       []*Route
	named       map[string]*Route
	middleware  map[string]Middleware
	controllers map[string]Controller
	groups      []GroupAttrs
	container   *container.Container
	baseURL     string
	logger      *slog.Logger
	debug       bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterBaseURL sets the absolute prefix for generated URLs,
// e.g. "https://example.com".
func WithRouterBaseURL(baseURL string) RouterOption {
	return func(r *Router) { r.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithRouterLogger sets the logger used for dispatch failures.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRouterContainer attaches a service container used to resolve
// controller references that were not registered explicitly.
func WithRouterContainer(ct *container.Container) RouterOption {
	return func(r *Router) { r.container = ct }
}

// WithRouterDebug switches error responses to the diagnostic page with the
// error message, origin, and stack trace. Never enable in production.
func WithRouterDebug(debug bool) RouterOption {
	return func(r *Router) { r.debug = debug }
}

// NewRouter returns an empty Router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		routes:      make(map[string][]*Route),
		named:       make(map[string]*Route),
		middleware:  make(map[string]Middleware),
		controllers: make(map[string]Controller),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get registers a route answering GET requests.
func (r *Router) Get(pattern string, action any) *Route {
	return r.Match([]string{http.MethodGet}, pattern, action)
}

// Head registers a route answering HEAD requests.
func (r *Router) Head(pattern string, action any) *Route {
	return r.Match([]string{http.MethodHead}, pattern, action)
}

// Post registers a route answering POST requests.
func (r *Router) Post(pattern string, action any) *Route {
	return r.Match([]string{http.MethodPost}, pattern, action)
}

// Put registers a route answering PUT requests.
func (r *Router) Put(pattern string, action any) *Route {
	return r.Match([]string{http.MethodPut}, pattern, action)
}

// Patch registers a route answering PATCH requests.
func (r *Router) Patch(pattern string, action any) *Route {
	return r.Match([]string{http.MethodPatch}, pattern, action)
}

// Delete registers a route answering DELETE requests.
func (r *Router) Delete(pattern string, action any) *Route {
	return r.Match([]string{http.MethodDelete}, pattern, action)
}

// Options registers a route answering OPTIONS requests.
func (r *Router) Options(pattern string, action any) *Route {
	return r.Match([]string{http.MethodOptions}, pattern, action)
}

// Any registers a route answering every supported verb.
func (r *Router) Any(pattern string, action any) *Route {
	return r.Match(allMethods, pattern, action)
}

// Match registers a route for an explicit method list. The action may be an
// Action func, a bare func with the Action signature, or a "Controller@method"
// string reference resolved against the controller registry (or the service
// container) at registration time.
func (r *Router) Match(methods []string, pattern string, action any) *Route {
	act, ref := r.resolveAction(action)
	rt := newRoute(r, methods, pattern, act, ref)
	if attrs, ok := r.currentGroup(); ok {
		if attrs.Prefix != "" {
			rt.Prefix(attrs.Prefix)
		}
		if attrs.Middleware != nil {
			rt.Middleware(attrs.Middleware...)
		}
	}
	for _, m := range rt.Methods() {
		r.routes[m] = append(r.routes[m], rt)
	}
	r.order = append(r.order, rt)
	return rt
}

// Redirect registers a GET route answering with a redirect to target.
// Status defaults to 302 Found.
func (r *Router) Redirect(pattern, target string, status ...int) *Route {
	code := http.StatusFound
	if len(status) > 0 {
		code = status[0]
	}
	return r.Get(pattern, func(c *Context, params ...string) (any, error) {
		return RedirectResponse(code, target), nil
	})
}

// View registers a GET route that renders a template with static data.
func (r *Router) View(pattern, name string, data map[string]any) *Route {
	return r.Get(pattern, func(c *Context, params ...string) (any, error) {
		return c.View(name, data)
	})
}

// Group runs fn with the given attributes active for every route registered
// inside it. When groups nest, a route takes its attributes from the
// innermost enclosing group only.
func (r *Router) Group(attrs GroupAttrs, fn func(*Router)) {
	r.groups = append(r.groups, attrs)
	defer func() { r.groups = r.groups[:len(r.groups)-1] }()
	fn(r)
}

func (r *Router) currentGroup() (GroupAttrs, bool) {
	if len(r.groups) == 0 {
		return GroupAttrs{}, false
	}
	return r.groups[len(r.groups)-1], true
}

// RegisterMiddleware adds a middleware under a name. Registering the same
// name again replaces the previous instance.
func (r *Router) RegisterMiddleware(name string, m Middleware) {
	r.middleware[name] = m
}

// RegisterMiddlewares adds several named middleware at once.
func (r *Router) RegisterMiddlewares(mws map[string]Middleware) {
	for name, m := range mws {
		r.middleware[name] = m
	}
}

// RegisterController adds a controller under the name used by
// "Controller@method" action references.
func (r *Router) RegisterController(name string, ctrl Controller) {
	r.controllers[name] = ctrl
}

// RegisterControllers adds several controllers at once.
func (r *Router) RegisterControllers(ctrls map[string]Controller) {
	for name, ctrl := range ctrls {
		r.controllers[name] = ctrl
	}
}

// resolveAction converts any supported action form into a callable Action
// plus a human-readable reference for logs and route listings.
func (r *Router) resolveAction(action any) (Action, string) {
	switch a := action.(type) {
	case Action:
		return a, "closure"
	case func(*Context, ...string) (any, error):
		return Action(a), "closure"
	case string:
		return r.resolveControllerAction(a)
	default:
		panic(fmt.Errorf("%w: unsupported action type %T", ErrInvalidAction, action))
	}
}

func (r *Router) resolveControllerAction(ref string) (Action, string) {
	name, method, ok := strings.Cut(ref, "@")
	if !ok || name == "" || method == "" {
		panic(fmt.Errorf("%w: malformed reference %q, want \"Controller@method\"", ErrInvalidAction, ref))
	}

	ctrl, ok := r.controllers[name]
	if !ok && r.container != nil {
		v, err := r.container.Resolve(name)
		if err == nil {
			if ctrl, ok = v.(Controller); ok {
				r.controllers[name] = ctrl
			} else {
				panic(fmt.Errorf("%w: %q resolved to %T, which is not a Controller", ErrActionResolution, name, v))
			}
		}
	}
	if !ok {
		panic(fmt.Errorf("%w: controller %q is not registered", ErrActionResolution, name))
	}

	act, ok := ctrl.Actions()[method]
	if !ok || act == nil {
		panic(fmt.Errorf("%w: controller %q has no action %q", ErrActionResolution, name, method))
	}
	return act, ref
}

// nameRoute binds a name to a route for reverse routing. Renaming a route
// releases its previous name; reusing a name across routes panics.
func (r *Router) nameRoute(name string, rt *Route) {
	if name == "" {
		return
	}
	if prev := rt.RouteName(); prev != "" && r.named[prev] == rt {
		delete(r.named, prev)
	}
	if existing, ok := r.named[name]; ok && existing != rt {
		panic(fmt.Errorf("%w: %q", ErrDuplicateRouteName, name))
	}
	r.named[name] = rt
}

// URL generates a URL for a named route, substituting {key} and {key?}
// placeholders from params. Placeholders without a matching param are left
// in the result untouched, and no path cleanup is performed, so callers can
// spot incomplete substitutions. The configured base URL, if any, is
// prepended.
func (r *Router) URL(name string, params map[string]any) (string, error) {
	rt, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: no route named %q", ErrRouteNotFound, name)
	}
	u := rt.Template()
	for key, val := range params {
		s := fmt.Sprint(val)
		u = strings.ReplaceAll(u, "{"+key+"?}", s)
		u = strings.ReplaceAll(u, "{"+key+"}", s)
	}
	return r.baseURL + u, nil
}

// Route returns the named route, or nil.
func (r *Router) Route(name string) *Route {
	return r.named[name]
}

// Routes lists all registered routes in registration order.
func (r *Router) Routes() []*Route {
	return r.order
}

// find scans the method's route list in registration order and returns the
// first route matching path, or nil. Path must already be normalized.
func (r *Router) find(method, path string) *Route {
	for _, rt := range r.routes[strings.ToUpper(method)] {
		if rt.Matches(method, path) {
			return rt
		}
	}
	return nil
}
