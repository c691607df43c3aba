package internal

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// paramToken matches {name} and {name?} placeholders in a URI pattern.
var paramToken = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(\?)?\}`)

// Route binds one URI pattern and verb set to an action. Fields are set
// during the registration phase (the builder methods below may still mutate
// middleware, name, and prefix) and are read-only once dispatch begins;
// parameter extraction results live on the per-request Context, never here.
type Route struct {
	router     *Router
	action     Action
	matcher    *regexp.Regexp
	methods    []string
	paramNames []string
	middleware []string
	pattern    string
	prefix     string
	name       string
	actionRef  string
	template   string
	literal    bool
}

func newRoute(router *Router, methods []string, pattern string, action Action, actionRef string) *Route {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: pattern %q", ErrNoMethods, pattern))
	}
	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}
	r := &Route{
		router:    router,
		action:    action,
		methods:   upper,
		pattern:   pattern,
		actionRef: actionRef,
	}
	r.compile()
	return r
}

// compile derives the matcher from the current prefix+pattern. The joined
// template is normalized to a single leading slash with no trailing slash.
// Required placeholders become ([^/]+) captures; an optional placeholder
// absorbs its leading slash as (?:/([^/]*))? so that /post/1/comment,
// /post/1/comment/ and /post/1/comment/7 all match the same route, with an
// empty capture when the segment is missing. Patterns without placeholders
// skip the regexp entirely and match by string equality.
func (r *Route) compile() {
	r.template = joinPath(r.prefix, r.pattern)

	tokens := paramToken.FindAllStringSubmatchIndex(r.template, -1)
	if len(tokens) == 0 {
		r.literal = true
		r.matcher = nil
		r.paramNames = nil
		return
	}

	var (
		b     strings.Builder
		names = make([]string, 0, len(tokens))
		last  = 0
	)
	b.WriteString("^")
	for _, m := range tokens {
		lit := r.template[last:m[0]]
		name := r.template[m[2]:m[3]]
		optional := m[4] != -1

		if slices.Contains(names, name) {
			panic(fmt.Errorf("%w: parameter %q repeats in %q", ErrInvalidPattern, name, r.template))
		}
		names = append(names, name)

		if optional && strings.HasSuffix(lit, "/") {
			b.WriteString(regexp.QuoteMeta(strings.TrimSuffix(lit, "/")))
			b.WriteString(`(?:/([^/]*))?`)
		} else {
			b.WriteString(regexp.QuoteMeta(lit))
			if optional {
				b.WriteString(`([^/]*)`)
			} else {
				b.WriteString(`([^/]+)`)
			}
		}
		last = m[1]
	}
	b.WriteString(regexp.QuoteMeta(r.template[last:]))
	b.WriteString("$")

	r.literal = false
	r.paramNames = names
	r.matcher = regexp.MustCompile(b.String())
}

// Matches reports whether the route accepts the method and the normalized
// path. Literal patterns compare by string equality, which is equivalent to
// running the compiled matcher.
func (r *Route) Matches(method, path string) bool {
	if !slices.Contains(r.methods, strings.ToUpper(method)) {
		return false
	}
	if r.literal {
		return r.template == path
	}
	return r.matcher.MatchString(path)
}

// Params re-runs the matcher and returns the captures positionally, in
// pattern order. The caller is expected to have checked Matches first; an
// unmatched path yields nil. Optional placeholders that were empty or
// absent both come back as "".
func (r *Route) Params(path string) []string {
	if r.literal {
		return nil
	}
	m := r.matcher.FindStringSubmatch(path)
	if m == nil {
		return nil
	}
	return m[1:]
}

// ParamNames returns the placeholder names in pattern order.
func (r *Route) ParamNames() []string { return r.paramNames }

// Methods returns the verb set the route was registered for.
func (r *Route) Methods() []string { return r.methods }

// Pattern returns the raw pattern as registered, without the group prefix.
func (r *Route) Pattern() string { return r.pattern }

// Template returns the normalized prefix+pattern with placeholders intact.
// Reverse routing substitutes into this string.
func (r *Route) Template() string { return r.template }

// RouteName returns the assigned route name, or "".
func (r *Route) RouteName() string { return r.name }

// MiddlewareNames returns the middleware list in execution order.
func (r *Route) MiddlewareNames() []string { return r.middleware }

// Middleware replaces the route's middleware list with the given names.
// Replacement, not append, also applies when a group assigns middleware.
func (r *Route) Middleware(names ...string) *Route {
	r.middleware = slices.Clone(names)
	return r
}

// Name registers the route under a unique name for reverse routing.
func (r *Route) Name(name string) *Route {
	if r.router != nil {
		r.router.nameRoute(name, r)
	}
	r.name = name
	return r
}

// Prefix sets the path prefix and recompiles the matcher. Group registration
// calls this after construction, which is why recompilation must be cheap
// and self-contained.
func (r *Route) Prefix(prefix string) *Route {
	r.prefix = prefix
	r.compile()
	return r
}

func (r *Route) String() string {
	ref := r.actionRef
	if ref == "" {
		ref = "func"
	}
	return fmt.Sprintf("%s %s -> %s", strings.Join(r.methods, "|"), r.template, ref)
}

// joinPath joins a prefix and a pattern into one normalized template:
// single leading slash, no trailing slash, empty parts dropped.
func joinPath(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			segs = append(segs, p)
		}
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// normalizePath brings a request path into template form: single leading
// slash, trailing slashes trimmed, so /hello/ and /hello hit the same route.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	for strings.HasPrefix(path, "//") {
		path = path[1:]
	}
	return path
}
