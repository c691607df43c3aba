package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/cookie"
	"github.com/dmitrymomot/anvil/pkg/csrf"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/queue"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/storage"
	"github.com/dmitrymomot/anvil/pkg/view"
)

// Option configures the application.
type Option func(*App)

// WithDebug switches error responses to the diagnostic page showing the
// error message, origin, and stack trace. Never enable in production.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.debug = debug
	}
}

// WithBaseURL sets the absolute prefix for generated route URLs.
//
// Example:
//
//	anvil.New(
//	    anvil.WithBaseURL("https://example.com"),
//	)
func WithBaseURL(baseURL string) Option {
	return func(a *App) {
		a.baseURL = baseURL
	}
}

// WithRoutes registers a route declaration callback. Callbacks run after
// controllers and middleware are registered, in the order provided, so a
// route may reference any controller or middleware from any other option.
//
// Example:
//
//	anvil.WithRoutes(func(r *anvil.Router) {
//	    r.Get("/", "PagesController@home").Name("home")
//	    r.Group(anvil.GroupAttrs{Prefix: "admin", Middleware: []string{"auth"}}, func(r *anvil.Router) {
//	        r.Get("/dashboard", "AdminController@dashboard").Name("admin.dashboard")
//	    })
//	})
func WithRoutes(fn func(*Router)) Option {
	return func(a *App) {
		if fn != nil {
			a.routeFns = append(a.routeFns, fn)
		}
	}
}

// WithController registers a controller under the name used by
// "Controller@method" action references.
func WithController(name string, ctrl Controller) Option {
	return func(a *App) {
		if a.pendingControllers == nil {
			a.pendingControllers = make(map[string]Controller)
		}
		a.pendingControllers[name] = ctrl
	}
}

// WithControllers registers several controllers at once.
//
// Example:
//
//	anvil.WithControllers(map[string]anvil.Controller{
//	    "PagesController":    NewPagesController(views),
//	    "ContactsController": NewContactsController(pool),
//	})
func WithControllers(ctrls map[string]Controller) Option {
	return func(a *App) {
		if a.pendingControllers == nil {
			a.pendingControllers = make(map[string]Controller, len(ctrls))
		}
		for name, ctrl := range ctrls {
			a.pendingControllers[name] = ctrl
		}
	}
}

// WithMiddleware registers a middleware under a name for routes to
// reference. Registering a name again replaces the previous instance.
func WithMiddleware(name string, m Middleware) Option {
	return func(a *App) {
		if a.pendingMiddleware == nil {
			a.pendingMiddleware = make(map[string]Middleware)
		}
		a.pendingMiddleware[name] = m
	}
}

// WithMiddlewares registers several named middleware at once.
//
// Example:
//
//	anvil.WithMiddlewares(map[string]anvil.Middleware{
//	    "auth": middlewares.RequireAuth(),
//	    "csrf": middlewares.CSRF(),
//	})
func WithMiddlewares(mws map[string]Middleware) Option {
	return func(a *App) {
		if a.pendingMiddleware == nil {
			a.pendingMiddleware = make(map[string]Middleware, len(mws))
		}
		for name, m := range mws {
			a.pendingMiddleware[name] = m
		}
	}
}

// WithContainer attaches a service container. Controller references not
// found in the controller registry are resolved through it.
func WithContainer(c *container.Container) Option {
	return func(a *App) {
		a.container = c
	}
}

// WithViews configures the template engine from a filesystem, typically an
// embed.FS. Rendering becomes available through c.View().
//
// Example:
//
//	//go:embed resources/views
//	var views embed.FS
//
//	anvil.New(
//	    anvil.WithViews(views, view.WithRoot("resources/views")),
//	)
func WithViews(fsys fs.FS, opts ...view.Option) Option {
	return func(a *App) {
		engine, err := view.New(fsys, opts...)
		if err != nil {
			panic(fmt.Sprintf("views: %v", err))
		}
		a.views = engine
	}
}

// WithStaticFiles serves files under a path prefix, checked ahead of route
// dispatch. Directory listings are disabled. Files are served with default
// cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	anvil.New(
//	    anvil.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(prefix string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(fmt.Sprintf("static files: %v", err))
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(prefix, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, prefix})
	}
}

// WithHealthChecks enables health check endpoints, answered ahead of route
// dispatch.
// Liveness (/health/live): always returns OK if the process is running.
// Readiness (/health/ready): runs all configured checks.
//
// Example:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    anvil.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	anvil.New(
//	    anvil.WithLogger("web", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	anvil.New(
//	    anvil.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	anvil.New(
//	    anvil.WithCookieOptions(
//	        cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieManager = cookie.New(opts...)
	}
}

// WithSession enables server-side session management.
// A session.Store implementation must be provided (memory, Redis, or
// Postgres). The session is loaded before dispatch, injected into the
// request Context, and saved automatically after dispatch.
//
// Example:
//
//	store := session.NewPostgresStore(pool)
//	anvil.New(
//	    anvil.WithSession(store,
//	        anvil.WithSessionCookieName("__sid"),
//	        anvil.WithSessionTTL(30*24*time.Hour),
//	        anvil.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}

// WithCSRF overrides the CSRF token manager. A default manager is created
// automatically whenever sessions are enabled.
func WithCSRF(opts ...csrf.Option) Option {
	return func(a *App) {
		a.csrf = csrf.New(opts...)
	}
}

// WithDatabase attaches a pgx connection pool. Controllers usually capture
// the pool directly; the App keeps it for readiness checks and the service
// container.
func WithDatabase(pool *pgxpool.Pool) Option {
	return func(a *App) {
		a.db = pool
	}
}

// WithJobs enables both job enqueueing and worker processing using River.
// A pgxpool.Pool is required for the job queue. Workers are started
// automatically when the app runs and stopped gracefully during shutdown.
// Use this for monolith deployments or workers that need to enqueue
// follow-up tasks.
//
// Example:
//
//	anvil.New(
//	    anvil.WithJobs(pool,
//	        queue.WithTask(tasks.NewSendWelcome(mailer, repo)),
//	        queue.WithScheduledTask(tasks.NewCleanupSessions(pool)),
//	        queue.WithQueue("email", 10),
//	    ),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...queue.Option) Option {
	return func(a *App) {
		m, err := queue.NewManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job manager: %v", err))
		}
		a.enqueuer = m.Enqueuer()
		a.worker = m
	}
}

// WithJobEnqueuer enables job enqueueing without worker processing.
// Use this for web servers that dispatch work to separate worker processes.
// Workers must be running elsewhere to process the enqueued jobs.
//
// Example:
//
//	// Web server - only enqueues jobs
//	anvil.New(
//	    anvil.WithJobEnqueuer(pool),
//	)
//	// c.Enqueue("send_email", payload) works
func WithJobEnqueuer(pool *pgxpool.Pool, opts ...queue.EnqueuerOption) Option {
	return func(a *App) {
		e, err := queue.NewEnqueuer(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job enqueuer: %v", err))
		}
		a.enqueuer = e
	}
}

// WithJobWorker enables job processing without enqueueing capability.
// Use this for dedicated background worker processes that don't need to
// dispatch additional jobs. If workers need to enqueue follow-up tasks,
// use WithJobs instead.
//
// Example:
//
//	// Dedicated worker process
//	anvil.New(
//	    anvil.WithJobWorker(pool,
//	        queue.WithTask(tasks.NewSendEmail(mailer)),
//	    ),
//	)
//	// c.Enqueue() returns queue.ErrNotConfigured
func WithJobWorker(pool *pgxpool.Pool, opts ...queue.Option) Option {
	return func(a *App) {
		m, err := queue.NewManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job worker: %v", err))
		}
		a.worker = m
	}
}

// WithStorage configures file storage for the application.
// A storage.Storage implementation must be provided (e.g., S3Client).
// Enables c.Upload() and c.Storage().
//
// Example:
//
//	s3, err := storage.NewS3Client(ctx, storage.Config{
//	    Bucket:    "my-bucket",
//	    AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//	    SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
//	anvil.New(
//	    anvil.WithStorage(s3),
//	)
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}
