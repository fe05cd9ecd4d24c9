package common

import "context"

type contextKey int

const correlationIDKey contextKey = iota

// WithCorrelationID stores a per-call correlation id in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation id, or "" if absent.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// LoggerFromContext tags logger with the context's correlation id, if any.
func LoggerFromContext(ctx context.Context, logger *Logger) *Logger {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return logger.WithCorrelationId(id)
	}
	return logger
}
