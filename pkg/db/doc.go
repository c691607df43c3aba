// Package db dials PostgreSQL through pgxpool with startup retries, runs
// goose migrations, and adapts the pool for health checks, transactions,
// and shutdown hooks.
//
// [Config] is env-tagged, so one struct embed wires the whole database
// section of an app's configuration:
//
//	DATABASE_CONN_URL           postgres:// URL (required)
//	DATABASE_MAX_OPEN_CONNS     pool ceiling (default 10)
//	DATABASE_MIN_CONNS          warm connections (default 5)
//	DATABASE_HEALTHCHECK_PERIOD idle probe interval (default 1m)
//	DATABASE_MAX_CONN_IDLE_TIME idle recycle cutoff (default 10m)
//	DATABASE_MAX_CONN_LIFETIME  lifetime recycle cutoff (default 30m)
//	DATABASE_RETRY_ATTEMPTS     startup attempts (default 3)
//	DATABASE_RETRY_INTERVAL     base retry interval (default 5s)
//	DATABASE_MIGRATIONS_PATH    migrations dir (default internal/db/migrations)
//	DATABASE_MIGRATIONS_TABLE   goose bookkeeping table (default schema_migrations)
//
// A typical startup connects, migrates, then hands the pool to the app:
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := db.Migrate(ctx, pool, migrations, cfg.MigrationsTable, logger); err != nil {
//	    log.Fatal(err)
//	}
//
//	app := anvil.New(
//	    anvil.WithDatabase(pool),
//	    anvil.WithHealthChecks(anvil.WithReadinessCheck("db", db.Healthcheck(pool))),
//	)
//	err = app.Run(":8080", anvil.ShutdownHook(db.Shutdown(pool)))
//
// [WithTx] scopes a function to one transaction, committing on nil and
// rolling back on error or panic. [Table] starts a small statement builder
// for single-table queries, producing a SQL string with $N placeholders and
// the matching argument slice for pgx.
//
// Failures carry sentinel errors (ErrFailedToParseDBConfig,
// ErrFailedToOpenDBConnection, ErrHealthcheckFailed, ErrSetDialect,
// ErrApplyMigrations) joined with the pgx or goose error underneath.
package db
