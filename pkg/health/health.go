package health

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 5 * time.Second

// Check statuses as they appear in JSON probe output.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency. A nil error means healthy. Closures from
// the db, redis, and queue packages satisfy this signature directly.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to their probe functions.
type Checks map[string]CheckFunc

// Report aggregates one readiness pass over all checks.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool { return r.Status == StatusHealthy }

// Result is the outcome of a single check.
type Result struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option configures check execution.
type Option func(*runner)

// WithTimeout bounds one readiness pass across all checks.
// Defaults to 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger failed checks are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

type runner struct {
	log     *slog.Logger
	timeout time.Duration
}

func newRunner(opts ...Option) *runner {
	r := &runner{
		log:     slog.New(slog.DiscardHandler),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run probes every check in parallel under a shared deadline. Check
// failures land in the report, never as a returned error, so one slow
// dependency cannot hide the status of the others.
func (r *runner) run(ctx context.Context, checks Checks) *Report {
	if len(checks) == 0 {
		return &Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	// Each goroutine owns its slot, so the results need no lock.
	results := make([]Result, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			if err := checks[name](ctx); err != nil {
				results[i] = Result{Status: StatusUnhealthy, Error: err.Error()}
				r.log.WarnContext(ctx, "health check failed", "check", name, "error", err)
			} else {
				results[i] = Result{Status: StatusHealthy}
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Status: StatusHealthy,
		Checks: make(map[string]Result, len(names)),
	}
	for i, name := range names {
		report.Checks[name] = results[i]
		if results[i].Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
		}
	}
	return report
}
