// Package logger builds slog loggers with context-extracted attributes and
// optional Sentry reporting.
//
// An extractor pulls one request-scoped value out of a context:
//
//	func RequestIDExtractor() logger.ContextExtractor {
//		return func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return slog.String("request_id", id), ok && id != ""
//		}
//	}
//
// Build a logger with it and every *Context log call carries the value:
//
//	log := logger.New(RequestIDExtractor())
//	log.InfoContext(ctx, "request served", "status", 200)
//	// {"level":"INFO","msg":"request served","status":200,"request_id":"h7x..."}
//
// Extraction happens per log call, not at logger construction, so one logger
// instance serves every request. [Wrap] applies the same decoration to any
// handler, for callers composing their own stacks.
//
// [NewWithSentry] mirrors warnings and errors to Sentry while keeping the
// stdout stream; with no DSN configured it behaves exactly like [New].
package logger
