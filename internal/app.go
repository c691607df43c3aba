package internal

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/cookie"
	"github.com/dmitrymomot/anvil/pkg/csrf"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/queue"
	"github.com/dmitrymomot/anvil/pkg/storage"
	"github.com/dmitrymomot/anvil/pkg/view"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App wires the router to the application's capabilities and serves HTTP.
// Each request gets a fresh Context carrying the loaded session; after
// dispatch the App persists the session, attaches queued cookies, and
// writes the response. App is immutable after creation - all configuration
// is done via New().
type App struct {
	router         *Router
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	sessionManager *SessionManager
	csrf           *csrf.Manager
	views          *view.Engine
	enqueuer       *queue.Enqueuer
	worker         *queue.Manager
	storage        storage.Storage
	db             *pgxpool.Pool
	container      *container.Container
	healthLive     http.Handler
	healthReady    http.Handler
	healthConfig   *healthConfig
	staticRoutes   []staticRoute
	baseURL        string
	debug          bool

	pendingControllers map[string]Controller
	pendingMiddleware  map[string]Middleware
	routeFns           []func(*Router)
}

// staticRoute serves files under a path prefix ahead of route dispatch.
type staticRoute struct {
	handler http.Handler
	prefix  string
}

// New creates an application from the given options. Route registration
// runs last, after controllers and middleware are in their registries, so
// option order does not matter.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithControllers(map[string]anvil.Controller{
//	        "ContactsController": NewContactsController(pool),
//	    }),
//	    anvil.WithRoutes(func(r *anvil.Router) {
//	        r.Get("/contacts", "ContactsController@index").Name("contacts.index")
//	    }),
//	)
func New(opts ...Option) *App {
	a := &App{
		logger:        logger.NewNope(),
		cookieManager: cookie.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.router == nil {
		a.router = NewRouter()
	}
	a.router.logger = a.logger
	a.router.debug = a.debug
	a.router.baseURL = strings.TrimRight(a.baseURL, "/")
	a.router.container = a.container

	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
		if a.csrf == nil {
			a.csrf = csrf.New()
		}
	}
	if a.healthConfig != nil {
		a.healthLive = health.LivenessHandler()
		a.healthReady = health.ReadinessHandler(a.healthConfig.checks)
	}

	a.router.RegisterControllers(a.pendingControllers)
	a.router.RegisterMiddlewares(a.pendingMiddleware)
	for _, fn := range a.routeFns {
		fn(a.router)
	}
	a.pendingControllers = nil
	a.pendingMiddleware = nil
	a.routeFns = nil

	return a
}

// Router returns the application's router, for inspection and for composing
// multi-domain setups.
func (a *App) Router() *Router {
	return a.router
}

// DB returns the configured database pool, or nil.
func (a *App) DB() *pgxpool.Pool {
	return a.db
}

// Worker returns the background job worker if configured, nil otherwise.
// Run uses it to start and stop processing around the server lifecycle.
func (a *App) Worker() *queue.Manager {
	return a.worker
}

// ServeHTTP runs one request through the pipeline: health and static
// shortcuts, session load, dispatch, session persist, cookie attachment,
// response write.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.healthConfig != nil {
		switch r.URL.Path {
		case a.healthConfig.livenessPath:
			a.healthLive.ServeHTTP(w, r)
			return
		case a.healthConfig.readinessPath:
			ww := newResponseWriter(w)
			a.healthReady.ServeHTTP(ww, r)
			if ww.Status() != http.StatusOK {
				a.logger.WarnContext(r.Context(), "readiness check failed",
					"status", ww.Status(),
				)
			}
			return
		}
	}
	for _, sr := range a.staticRoutes {
		if strings.HasPrefix(r.URL.Path, sr.prefix) {
			ww := newResponseWriter(w)
			sr.handler.ServeHTTP(ww, r)
			a.logger.DebugContext(r.Context(), "static file served",
				"path", r.URL.Path,
				"status", ww.Status(),
				"size", ww.Size(),
			)
			return
		}
	}

	c := newAppContext(a, r)
	defer c.runDeferred()

	if a.sessionManager != nil {
		c.SetSession(a.sessionManager.LoadOrCreate(r.Context(), r))
	}

	resp, err := a.router.Dispatch(c)
	if err != nil {
		// Only middleware registry misses reach here. That is an
		// application wiring bug, answered like any other server fault.
		a.logger.ErrorContext(r.Context(), "dispatch failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
		)
		resp = internalErrorResponse(a.debug, err, debug.Stack())
	}

	if a.sessionManager != nil && c.session != nil {
		a.sessionManager.Persist(r.Context(), c.session, resp)
	}
	for _, ck := range c.queuedCookies {
		resp.WithCookie(ck)
	}

	if werr := resp.write(w); werr != nil {
		a.logger.ErrorContext(r.Context(), "write response failed",
			"error", werr,
			"method", c.Method(),
			"path", c.Path(),
		)
		return
	}
	a.logger.DebugContext(r.Context(), "request served",
		"method", c.Method(),
		"path", c.Path(),
		"status", resp.StatusCode(),
	)
}

// Run starts a single-domain HTTP server and blocks until shutdown.
// If a job worker is configured, it starts before serving requests and
// stops gracefully during shutdown.
//
// Example:
//
//	err := app.Run(":8080", anvil.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	startupHooks := cfg.startupHooks
	shutdownHooks := cfg.shutdownHooks
	if a.worker != nil {
		startupHooks = append([]func(context.Context) error{a.worker.StartFunc()}, startupHooks...)
		shutdownHooks = append(shutdownHooks, a.worker.Shutdown())
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
//
// Example:
//
//	anvil.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
