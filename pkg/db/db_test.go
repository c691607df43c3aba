package db

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectRejectsBadConnectionString(t *testing.T) {
	t.Parallel()

	pool, err := Connect(context.Background(), Config{
		ConnectionString: "postgres://bad host/db?sslmode",
	})
	require.Nil(t, pool)
	require.ErrorIs(t, err, ErrFailedToParseDBConfig)
}

func TestHealthcheckNilPool(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

func TestSlogGooseForwardsLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	g := slogGoose{log}

	g.Printf("applied %d migrations", 3)
	g.Fatalf("migration %s failed", "0002_users")

	out := buf.String()
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, "applied 3 migrations")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "migration 0002_users failed")
}
