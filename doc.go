// Package anvil provides a small, convention-driven web framework for
// server-rendered Go applications.
//
// Anvil is built around named routes, named middleware, and controllers
// that return plain values. The framework normalizes whatever an action
// returns into an HTTP response, so handlers stay focused on producing
// data instead of writing to the wire.
//
// # Quick Start
//
// Create an application with anvil.New(), declare routes with WithRoutes,
// and call Run() to start the HTTP server:
//
//	app := anvil.New(
//	    anvil.WithLogger("web"),
//	    anvil.WithController("PagesController", NewPagesController()),
//	    anvil.WithRoutes(func(r *anvil.Router) {
//	        r.Get("/", "PagesController@home").Name("home")
//	        r.Get("/about", func(c *anvil.Context, _ ...string) (any, error) {
//	            return "<h1>About</h1>", nil
//	        })
//	    }),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routing
//
// Routes bind URI patterns to actions. Patterns use {name} for required
// parameters and {name?} for optional ones:
//
//	r.Get("/contacts/{id}", "ContactsController@show").Name("contacts.show")
//	r.Get("/archive/{year}/{month?}", "ArchiveController@index")
//
// Routes are matched in registration order. Named routes support reverse
// URL generation:
//
//	url, err := app.Router().URL("contacts.show", anvil.D{"id": 42})
//	// "/contacts/42"
//
// Groups apply a shared prefix and middleware to the routes declared
// inside them:
//
//	r.Group(anvil.GroupAttrs{Prefix: "admin", Middleware: []string{"auth"}}, func(r *anvil.Router) {
//	    r.Get("/dashboard", "AdminController@dashboard")
//	})
//
// # Controllers
//
// Controllers expose a table of named actions. String references like
// "ContactsController@show" resolve through the controller registry, with
// the service container as a fallback:
//
//	type ContactsController struct {
//	    repo *repository.Queries
//	}
//
//	func (ctrl *ContactsController) Actions() map[string]anvil.Action {
//	    return map[string]anvil.Action{
//	        "index": ctrl.index,
//	        "show":  ctrl.show,
//	    }
//	}
//
//	func (ctrl *ContactsController) show(c *anvil.Context, params ...string) (any, error) {
//	    contact, err := ctrl.repo.FindContact(c.Context(), params[0])
//	    if err != nil {
//	        return nil, err
//	    }
//	    return c.View("contacts/show", anvil.D{"contact": contact})
//	}
//
// # Responses
//
// Actions return (any, error). Return values are normalized: strings and
// []byte become HTML, maps, structs, and slices are encoded as JSON,
// templ components are rendered, and a *Response passes through as-is.
// Returning an error renders the standard 500 page; in debug mode the
// page includes the message, origin, and stack trace.
//
// To end a request early from a helper, wrap a ready response with
// [Terminate]:
//
//	return nil, anvil.Terminate(anvil.RedirectResponse(302, "/login"))
//
// # Middleware
//
// Middleware is registered under a name and referenced by routes and
// groups. A middleware returning a non-nil Response short-circuits the
// chain:
//
//	anvil.WithMiddleware("auth", anvil.MiddlewareFunc(
//	    func(c *anvil.Context, next anvil.Next) (*anvil.Response, error) {
//	        if _, err := anvil.SessionValue[string](c.Session(), "user_id"); err != nil {
//	            return anvil.RedirectResponse(302, "/login"), nil
//	        }
//	        return next(c)
//	    },
//	))
//
// # Sessions
//
// Sessions are loaded before dispatch and persisted after it. Enabling
// sessions also enables CSRF protection for unsafe methods:
//
//	store := session.NewPostgresStore(pool)
//	app := anvil.New(
//	    anvil.WithSession(store, anvil.WithSessionSecure(true)),
//	)
//
// # Background Jobs
//
// Job processing is backed by River on Postgres. Register task handlers
// and enqueue work from actions:
//
//	anvil.WithJobs(pool,
//	    anvil.WithTask(tasks.NewSendWelcome(mailer)),
//	    anvil.WithScheduledTask(tasks.NewCleanupSessions(pool)),
//	)
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// ShutdownHook when composing servers with [Run]:
//
//	err := anvil.Run(
//	    anvil.Domain("app.acme.com", webApp),
//	    anvil.Domain("api.acme.com", apiApp),
//	    anvil.ShutdownHook(db.Shutdown(pool)),
//	)
package anvil
