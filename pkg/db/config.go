package db

import "time"

// Config carries PostgreSQL pool settings. The env tags line up with
// caarlos0/env so apps can embed it in their own config struct and parse
// everything in one pass.
type Config struct {
	// ConnectionString is a postgres:// URL.
	ConnectionString string `env:"DATABASE_CONN_URL,required"`

	// MigrationsPath and MigrationsTable locate the goose migrations and
	// the bookkeeping table they write to.
	MigrationsPath  string `env:"DATABASE_MIGRATIONS_PATH" envDefault:"internal/db/migrations"`
	MigrationsTable string `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`

	// HealthCheckPeriod is how often pgx probes idle connections.
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTHCHECK_PERIOD" envDefault:"1m"`

	// MaxConnIdleTime and MaxConnLifetime recycle connections; keep both
	// comfortably under any pooler or load balancer idle cutoff.
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`

	// RetryAttempts and RetryInterval govern startup: the interval grows
	// linearly per attempt, so restarts of many instances spread out.
	RetryAttempts int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`

	// MaxOpenConns and MinConns bound the pool. Size MaxOpenConns against
	// the server's max_connections shared across every app instance.
	MaxOpenConns int32 `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MinConns     int32 `env:"DATABASE_MIN_CONNS" envDefault:"5"`
}
