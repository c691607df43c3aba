// Package redis opens go-redis clients with production pool defaults,
// startup retries, and hooks for health checks and graceful shutdown.
//
// [Open] parses a redis:// or rediss:// URL, applies pool tuning, and pings
// the server before handing the client back. Startup failures retry with a
// growing interval so the app survives a Redis container that comes up a
// few seconds late:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, 2*time.Second),
//	)
//
// [MustOpen] does the same but exits the process on failure, for programs
// that cannot run without Redis anyway.
//
// [Healthcheck] and [Shutdown] adapt the client for readiness probes and
// app shutdown hooks:
//
//	app := anvil.New(
//	    anvil.WithHealthChecks(anvil.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	)
//	err := app.Run(":8080", anvil.ShutdownHook(redis.Shutdown(client)))
//
// Failures carry sentinel errors (ErrEmptyConnectionURL, ErrFailedToParseURL,
// ErrConnectionFailed, ErrHealthcheckFailed) joined with the driver error.
package redis
