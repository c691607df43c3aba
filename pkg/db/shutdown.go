package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Shutdown wraps pool.Close in the signature shutdown hooks take, so
// in-flight queries drain when the app stops:
//
//	err := app.Run(":8080", anvil.ShutdownHook(db.Shutdown(pool)))
func Shutdown(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		pool.Close()
		return nil
	}
}
