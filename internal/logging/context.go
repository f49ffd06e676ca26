package logging

import (
	"context"

	"go.uber.org/zap"
)

type loggerCtxKey struct{}
type fieldsCtxKey struct{}

// WithLogger stores logger in ctx for FromContext to retrieve.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves the Logger stored by WithLogger, or a discarding
// Logger if none was stored.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

// WithFields returns a context that carries fields in addition to any
// already attached by an outer WithFields call, so a task worker can do
// ctx = logging.WithFields(ctx, zap.String("session_id", id)) once and have
// every log line emitted through that ctx carry it.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing, _ := ctx.Value(fieldsCtxKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsCtxKey{}, merged)
}

// ContextFields returns the fields accumulated on ctx by WithFields calls.
func ContextFields(ctx context.Context) []zap.Field {
	fields, _ := ctx.Value(fieldsCtxKey{}).([]zap.Field)
	return fields
}
