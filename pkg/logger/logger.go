package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout at info level. Extractors, if
// given, pull request-scoped attributes out of the context on every log call.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(Wrap(h, extractors...))
}

// NewNope returns a logger that discards everything. Components take it as
// their default so logging stays optional.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
