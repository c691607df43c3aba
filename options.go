package anvil

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/cookie"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/queue"
	"github.com/dmitrymomot/anvil/pkg/session"
)

// App options

// WithDebug switches error responses to the diagnostic page showing the
// error message, origin, and stack trace. Never enable in production.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithBaseURL sets the absolute prefix for generated route URLs.
func WithBaseURL(baseURL string) Option {
	return internal.WithBaseURL(baseURL)
}

// WithRoutes registers a route declaration callback. Callbacks run after
// controllers and middleware are registered, in the order provided.
//
// Example:
//
//	anvil.WithRoutes(func(r *anvil.Router) {
//	    r.Get("/", "PagesController@home").Name("home")
//	    r.Group(anvil.GroupAttrs{Prefix: "admin", Middleware: []string{"auth"}}, func(r *anvil.Router) {
//	        r.Get("/dashboard", "AdminController@dashboard")
//	    })
//	})
func WithRoutes(fn func(*Router)) Option {
	return internal.WithRoutes(fn)
}

// WithController registers a controller under the name used by
// "Controller@method" action references.
func WithController(name string, ctrl Controller) Option {
	return internal.WithController(name, ctrl)
}

// WithControllers registers several controllers at once.
func WithControllers(ctrls map[string]Controller) Option {
	return internal.WithControllers(ctrls)
}

// WithMiddleware registers a middleware under a name for routes to
// reference. Registering a name again replaces the previous instance.
func WithMiddleware(name string, m Middleware) Option {
	return internal.WithMiddleware(name, m)
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
	return internal.WithMiddlewares(mws)
}

// WithContainer attaches a service container. Controller references not
// found in the controller registry are resolved through it.
func WithContainer(c *Container) Option {
	return internal.WithContainer(c)
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
func WithViews(fsys fs.FS, opts ...ViewOption) Option {
	return internal.WithViews(fsys, opts...)
}

// WithStaticFiles serves files under a path prefix, checked ahead of route
// dispatch. Directory listings are disabled.
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
	return internal.WithStaticFiles(prefix, fsys, subDir)
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
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	anvil.New(
//	    anvil.WithCookieOptions(
//	        anvil.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        anvil.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithCSRF overrides the CSRF token manager. A default manager is created
// automatically whenever sessions are enabled.
func WithCSRF(opts ...CSRFOption) Option {
	return internal.WithCSRF(opts...)
}

// WithDatabase attaches a pgx connection pool, used for readiness checks and
// the service container.
func WithDatabase(pool *pgxpool.Pool) Option {
	return internal.WithDatabase(pool)
}

// WithStorage configures file storage, enabling c.Upload() and c.Storage().
//
// Example:
//
//	s3, err := storage.New(storage.Config{
//	    Bucket:    "uploads",
//	    AccessKey: os.Getenv("S3_ACCESS_KEY"),
//	    SecretKey: os.Getenv("S3_SECRET_KEY"),
//	})
//	anvil.New(
//	    anvil.WithStorage(s3),
//	)
func WithStorage(s Storage) Option {
	return internal.WithStorage(s)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Cookie options

// WithCookieSecret sets the secret for signing and encryption.
// Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound  = cookie.ErrNotFound
	ErrCookieNoSecret  = cookie.ErrNoSecret
	ErrCookieBadSecret = cookie.ErrBadSecret
	ErrCookieBadSig    = cookie.ErrBadSig
	ErrCookieDecrypt   = cookie.ErrDecrypt
)

// Session options

// WithSession enables server-side session management.
// A SessionStore implementation must be provided (memory, Redis, or
// Postgres). The session is loaded before dispatch, carried on the Context,
// and saved automatically after dispatch.
//
// Example:
//
//	store := session.NewPostgresStore(pool)
//	anvil.New(
//	    anvil.WithSession(store,
//	        anvil.WithSessionTTL(30*24*time.Hour),
//	        anvil.WithSessionSecure(true),
//	    ),
//	)
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithSessionCookieName sets the session cookie name.
// Defaults to "__sid".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionTTL sets how long sessions live without activity.
// Defaults to 30 days.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return internal.WithSessionTTL(ttl)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionPath sets the session cookie path.
// Defaults to "/".
func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

// WithSessionSecure sets the session cookie Secure flag.
// Defaults to false; enable in production behind HTTPS.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionHTTPOnly sets the session cookie HttpOnly flag.
// Defaults to true.
func WithSessionHTTPOnly(httpOnly bool) SessionOption {
	return internal.WithSessionHTTPOnly(httpOnly)
}

// WithSessionSameSite sets the session cookie SameSite attribute.
// Defaults to SameSiteLaxMode.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// Session errors for checking return values.
var (
	ErrSessionNotConfigured = session.ErrNotConfigured
	ErrSessionNotFound      = session.ErrNotFound
	ErrSessionExpired       = session.ErrExpired
	ErrSessionInvalidToken  = session.ErrInvalidToken
)

// Job options

// WithJobs enables both job enqueueing and worker processing using River.
// Workers are started automatically when the app runs and stopped
// gracefully during shutdown. Use this for monolith deployments or workers
// that need to enqueue follow-up tasks.
//
// Example:
//
//	anvil.New(
//	    anvil.WithJobs(pool,
//	        anvil.WithTask(tasks.NewSendWelcome(mailer, repo)),
//	        anvil.WithScheduledTask(tasks.NewCleanupSessions(pool)),
//	        anvil.WithJobQueue("email", 10),
//	    ),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobs(pool, opts...)
}

// WithJobEnqueuer enables job enqueueing without worker processing.
// Use this for web servers that dispatch work to separate worker processes.
func WithJobEnqueuer(pool *pgxpool.Pool, opts ...EnqueuerOption) Option {
	return internal.WithJobEnqueuer(pool, opts...)
}

// WithJobWorker enables job processing without enqueueing capability.
// Use this for dedicated background worker processes. If workers need to
// enqueue follow-up tasks, use WithJobs instead.
func WithJobWorker(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobWorker(pool, opts...)
}

// WithTask registers a task handler using structural typing.
// The task must implement Name() and Handle(ctx, P) methods.
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) JobOption {
	return queue.WithTask[P, T](task)
}

// WithScheduledTask registers a periodic task.
// The task must implement Name(), Schedule(), and Handle(ctx) methods.
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) JobOption {
	return queue.WithScheduledTask[T](task)
}

// WithJobQueue configures a named queue with the specified number of workers.
func WithJobQueue(name string, workers int) JobOption {
	return queue.WithQueue(name, workers)
}

// WithJobLogger sets the logger for job processing.
func WithJobLogger(l *slog.Logger) JobOption {
	return queue.WithLogger(l)
}

// WithJobMaxWorkers sets the default maximum number of workers.
func WithJobMaxWorkers(n int) JobOption {
	return queue.WithMaxWorkers(n)
}

// Enqueue options

// InQueue specifies which queue to use for the job.
func InQueue(name string) EnqueueOption {
	return queue.InQueue(name)
}

// ScheduledAt schedules the job to run at a specific time.
func ScheduledAt(t time.Time) EnqueueOption {
	return queue.ScheduledAt(t)
}

// ScheduledIn schedules the job to run after a duration.
func ScheduledIn(d time.Duration) EnqueueOption {
	return queue.ScheduledIn(d)
}

// MaxAttempts sets the maximum number of retry attempts for the job.
func MaxAttempts(n int) EnqueueOption {
	return queue.MaxAttempts(n)
}

// UniqueFor ensures only one job with this key exists for the duration.
func UniqueFor(d time.Duration) EnqueueOption {
	return queue.UniqueFor(d)
}

// UniqueKey sets a custom unique key for deduplication.
func UniqueKey(key string) EnqueueOption {
	return queue.UniqueKey(key)
}

// JobPriority sets the job priority (lower numbers run first).
func JobPriority(p int) EnqueueOption {
	return queue.Priority(p)
}

// JobTags adds metadata tags to the job.
func JobTags(tags ...string) EnqueueOption {
	return queue.Tags(tags...)
}

// JobHealthcheck returns a readiness check for the job manager.
func JobHealthcheck(m *JobManager) health.CheckFunc {
	return queue.Healthcheck(m)
}

// Job errors for checking return values.
var (
	ErrJobNotConfigured  = queue.ErrNotConfigured
	ErrJobUnknownTask    = queue.ErrUnknownTask
	ErrJobInvalidPayload = queue.ErrInvalidPayload
	ErrJobPoolRequired   = queue.ErrPoolRequired
)
