// Package queue provides background job processing using River (Postgres-native queue).
//
// This package enables asynchronous task execution with features like retry handling,
// scheduled jobs, transactional enqueueing, and multiple queue support. It wraps River
// to provide a simplified, type-safe API that integrates seamlessly with the Anvil framework.
//
// # Features
//
//   - Type-safe task registration with structural typing (no interface imports needed)
//   - Scheduled/periodic tasks with cron expressions
//   - Transactional job enqueueing (jobs only visible after commit)
//   - Multiple named queues with configurable worker counts
//   - Automatic retry with exponential backoff
//   - Job deduplication with uniqueness constraints
//   - Priority-based job ordering
//   - Health check integration
//
// # Task Definition
//
// Tasks are defined as structs with Name() and Handle() methods.
// No interface import is required - the package uses structural typing:
//
//	type SendWelcome struct {
//	    mailer mail.Mailer
//	    repo   *repository.Queries
//	}
//
//	func NewSendWelcome(mailer mail.Mailer, repo *repository.Queries) *SendWelcome {
//	    return &SendWelcome{mailer: mailer, repo: repo}
//	}
//
//	func (t *SendWelcome) Name() string { return "send_welcome" }
//
//	func (t *SendWelcome) Handle(ctx context.Context, p SendWelcomePayload) error {
//	    user, err := t.repo.GetUser(ctx, p.UserID)
//	    if err != nil {
//	        return err
//	    }
//	    return t.mailer.Send(ctx, "welcome", user.Email, user)
//	}
//
//	type SendWelcomePayload struct {
//	    UserID string `json:"user_id"`
//	}
//
// # Scheduled Tasks
//
// Periodic tasks implement Schedule() returning a cron expression:
//
//	type CleanupSessions struct {
//	    store session.Store
//	}
//
//	func (t *CleanupSessions) Schedule() string { return "0 * * * *" } // Every hour
//
//	func (t *CleanupSessions) Handle(ctx context.Context) error {
//	    return t.store.DeleteExpired(ctx)
//	}
//
// # App Integration
//
// Jobs integrate with Anvil through the WithJobs option:
//
//	import (
//	    "github.com/dmitrymomot/anvil"
//	    "github.com/dmitrymomot/anvil/pkg/queue"
//	)
//
//	app := anvil.New(
//	    anvil.WithJobs(pool,
//	        queue.WithTask(tasks.NewSendWelcome(mailer, repo)),
//	        queue.WithTask(tasks.NewProcessPayment(stripe, repo)),
//	        queue.WithScheduledTask(tasks.NewCleanupSessions(store)),
//	        queue.WithQueue("email", 10),
//	        queue.WithQueue("payments", 5),
//	        queue.WithLogger(slog.Default()),
//	    ),
//	)
//
// # Enqueueing Jobs
//
// Jobs are enqueued from handlers using the Context methods:
//
//	func (h *UserHandler) Create(c *anvil.Context) (any, error) {
//	    // ... create user ...
//
//	    // Simple enqueue
//	    err := c.Enqueue("send_welcome", tasks.SendWelcomePayload{
//	        UserID: user.ID,
//	    })
//
//	    // With options
//	    err := c.Enqueue("send_reminder", payload,
//	        queue.ScheduledIn(24*time.Hour),
//	        queue.InQueue("email"),
//	        queue.MaxAttempts(3),
//	    )
//
//	    return c.JSON(http.StatusCreated, user), nil
//	}
//
// # Transactional Enqueueing
//
// For atomicity between database changes and job enqueueing:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    user, err := repo.CreateUser(ctx, tx, req)
//	    if err != nil {
//	        return err
//	    }
//
//	    // Job only exists if transaction commits
//	    return enqueuer.EnqueueTx(ctx, tx, "send_welcome", tasks.SendWelcomePayload{
//	        UserID: user.ID,
//	    })
//	})
//
// # Job Uniqueness
//
// Prevent duplicate job processing with uniqueness options:
//
//	// Only one password reset per user per hour
//	c.Enqueue("send_password_reset", payload,
//	    queue.UniqueFor(time.Hour),
//	    queue.UniqueKey(userID),
//	)
//
// # Health Checks
//
// Add queue manager health check to readiness probes:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    anvil.WithReadinessCheck("jobs", queue.Healthcheck(manager)),
//	)
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrNotConfigured] - WithJobs was not called
//   - [ErrUnknownTask] - Task name not registered
//   - [ErrInvalidPayload] - Payload deserialization failed
//   - [ErrAlreadyStarted] - Manager already running
//   - [ErrNotStarted] - Manager not running
//   - [ErrHealthcheckFailed] - Health check failed
//
// # Database Migrations
//
// River requires database tables. Run River migrations before using:
//
//	CREATE TABLE river_job (...);
//	CREATE TABLE river_leader (...);
//	CREATE TABLE river_queue (...);
//
// See River documentation for migration SQL: https://riverqueue.com/docs/migrations
package queue
