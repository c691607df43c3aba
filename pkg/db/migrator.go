package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration from the embedded
// filesystem, recording progress in table. Run it on startup before the
// app begins serving.
//
// goose speaks database/sql, so the pool is adapted with
// stdlib.OpenDBFromPool; the adapter shares the pool's connections and must
// not be closed here.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations embed.FS, table string, log *slog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(slogGoose{log})
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, stdlib.OpenDBFromPool(pool), "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

// slogGoose feeds goose's printf-style logging into slog.
type slogGoose struct {
	log *slog.Logger
}

func (g slogGoose) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs at error level without exiting; goose returns the failure as
// an error anyway, and the caller decides whether it is fatal.
func (g slogGoose) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
