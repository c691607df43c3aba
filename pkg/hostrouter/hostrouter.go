package hostrouter

import (
	"net/http"
	"strings"
)

// Routes maps host patterns to handlers. A pattern is either a literal
// host ("api.example.com") or a single-label wildcard ("*.example.com").
type Routes map[string]http.Handler

// Router dispatches requests by their Host header. Literal patterns win
// over wildcards, and anything unmatched goes to the fallback handler.
type Router struct {
	hosts    map[string]http.Handler
	suffixes map[string]http.Handler
	fallback http.Handler
}

// New builds a Router from routes. Patterns are trimmed and lowercased;
// empty ones are ignored. fallback must not be nil.
func New(routes Routes, fallback http.Handler) *Router {
	r := &Router{
		hosts:    make(map[string]http.Handler, len(routes)),
		suffixes: make(map[string]http.Handler),
		fallback: fallback,
	}
	for pattern, h := range routes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
		case strings.HasPrefix(pattern, "*."):
			r.suffixes[strings.TrimPrefix(pattern, "*.")] = h
		default:
			r.hosts[pattern] = h
		}
	}
	return r
}

// ServeHTTP matches the normalized request host against literal patterns
// first, then wildcards. A wildcard covers exactly one label: *.example.com
// matches foo.example.com but neither example.com nor bar.foo.example.com.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	host := normalizeHost(req.Host)

	if h, ok := r.hosts[host]; ok {
		h.ServeHTTP(w, req)
		return
	}
	if _, rest, found := strings.Cut(host, "."); found {
		if h, ok := r.suffixes[rest]; ok {
			h.ServeHTTP(w, req)
			return
		}
	}
	r.fallback.ServeHTTP(w, req)
}
