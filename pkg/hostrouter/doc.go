// Package hostrouter dispatches HTTP requests by the Host header, which is
// the usual shape of multi-tenant apps: one process serving an API domain,
// per-tenant subdomains, and a marketing site.
//
// Patterns come in two forms. A literal pattern ("api.example.com") matches
// that host only. A wildcard pattern ("*.example.com") matches hosts one
// label deeper, so it covers foo.example.com but not example.com itself and
// not bar.foo.example.com. Literal matches always win over wildcards, and
// requests matching neither go to the fallback handler.
//
// Matching ignores case and ports. IPv6 literals are matched with their
// brackets, so register "[::1]" to serve loopback requests.
//
//	router := hostrouter.New(hostrouter.Routes{
//	    "api.example.com": apiHandler,
//	    "*.example.com":   tenantHandler,
//	}, landingHandler)
//	http.ListenAndServe(":8080", router)
//
// Inside a wildcard handler, GetSubdomain recovers the tenant label:
//
//	tenant := hostrouter.GetSubdomain(r, "example.com") // "acme"
package hostrouter
