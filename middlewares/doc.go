// Package middlewares provides the built-in request filters.
//
// A middleware inspects the request before the route action runs. Returning
// nil lets the request continue; returning a *Response answers it
// immediately and skips everything behind it. Middleware is registered
// under a name at construction time and assigned to routes or groups by
// that name:
//
//	app := anvil.New(
//	    anvil.WithMiddleware("auth", middlewares.RequireAuth()),
//	    anvil.WithMiddleware("csrf", middlewares.CSRF()),
//	    anvil.WithRoutes(func(r *anvil.Router) {
//	        r.Get("/dashboard", "DashboardController@index").Middleware("auth")
//	        r.Group(anvil.GroupAttrs{Middleware: []string{"csrf"}}, func(r *anvil.Router) {
//	            r.Post("/contacts", "ContactsController@store")
//	        })
//	    }),
//	)
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It honors IDs
// arriving on X-Request-ID and similar headers, generates a ULID otherwise,
// and echoes the ID on the response. Pair it with RequestIDExtractor so
// every log line carries request_id:
//
//	app := anvil.New(
//	    anvil.WithLogger("web", middlewares.RequestIDExtractor()),
//	    anvil.WithMiddleware("requestid", middlewares.RequestID()),
//	)
//
// # Authentication
//
// RequireAuth guards routes behind session authentication; browsers are
// redirected to the login page, API clients receive a 401 JSON body.
// RequireGuest does the inverse for login and registration pages.
//
// # CSRF
//
// CSRF verifies the session token on every state-changing request (safe
// methods are exempt) and answers mismatches with 419 Page Expired.
// Webhook endpoints can be excluded by path prefix:
//
//	middlewares.CSRF(middlewares.WithCSRFExempt("/webhooks/"))
//
// # JWT
//
// JWT authenticates API requests with bearer tokens and stores the parsed
// claims for handlers:
//
//	svc, _ := jwt.NewFromString(secret)
//	app := anvil.New(
//	    anvil.WithMiddleware("api-auth", middlewares.JWT[jwt.StandardClaims](svc)),
//	)
//
// # Locale
//
// Locale resolves the request language (cookie, then Accept-Language),
// builds a translator, and stores both on the context so c.T and template
// helpers translate correctly.
//
// # CORS and Timeout
//
// CORS answers preflight requests and stages the response headers cross-
// origin browsers require. Timeout attaches a deadline to the request
// context so downstream I/O is canceled when the budget runs out.
package middlewares
