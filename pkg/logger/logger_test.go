package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/logger"
)

type reqKey struct{}

func requestExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := ctx.Value(reqKey{}).(string)
		return slog.String("request_id", id), ok && id != ""
	}
}

func jsonLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestWrapExtractsFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.Wrap(slog.NewJSONHandler(&buf, nil), requestExtractor()))

	ctx := context.WithValue(context.Background(), reqKey{}, "req-42")
	log.InfoContext(ctx, "served", "status", 200)

	line := jsonLine(t, &buf)
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, float64(200), line["status"])
}

func TestWrapSkipsAbsentValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.Wrap(slog.NewJSONHandler(&buf, nil), requestExtractor()))

	log.Info("no request context")

	line := jsonLine(t, &buf)
	_, present := line["request_id"]
	assert.False(t, present, "absent context value must not log")
}

func TestWrapIgnoresNilExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.Wrap(slog.NewJSONHandler(&buf, nil), nil, requestExtractor(), nil))

	ctx := context.WithValue(context.Background(), reqKey{}, "ok")
	log.InfoContext(ctx, "msg")

	assert.Equal(t, "ok", jsonLine(t, &buf)["request_id"])
}

func TestWrapPreservesWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(logger.Wrap(slog.NewJSONHandler(&buf, nil), requestExtractor()))
	log = log.With("component", "router")

	ctx := context.WithValue(context.Background(), reqKey{}, "req-1")
	log.InfoContext(ctx, "msg")

	line := jsonLine(t, &buf)
	assert.Equal(t, "router", line["component"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestNewNopeDiscards(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestNewWithSentryFallsBackWithoutDSN(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
}
