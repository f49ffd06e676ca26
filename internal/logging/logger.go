// Package logging is a thin, context-aware wrapper over zap. Every log
// line the executor emits for a task carries that task's session ID, issue
// number, and domain without the call site having to know about them; they
// travel on the context instead of through a logger parameter threaded
// across every function signature.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger. The zero value is not usable; construct one
// with New.
type Logger struct {
	zap *zap.Logger
}

// New builds a Logger from cfg, writing to stderr so stdout stays free for
// any command output autoissue itself produces.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoder := newEncoder(cfg.Format)
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), cfg.Level)
	zl := zap.New(core)

	return &Logger{zap: zl}, nil
}

// Nop returns a Logger that discards everything, used as the context
// default so call sites never need a nil check.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.MessageKey = "msg"

	if format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// With returns a child Logger with fields attached to every subsequent
// line, independent of anything carried on a context.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

// Named returns a child Logger scoped under name (e.g. "scheduler",
// "worktree"), appended to any existing name with a dot separator.
func (l *Logger) Named(name string) *Logger {
	return &Logger{zap: l.zap.Named(name)}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Debug(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Info(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Warn(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Error(msg, append(ContextFields(ctx), fields...)...)
}

// Sync flushes any buffered log entries. ENOTTY/EINVAL are expected when
// stderr is a terminal and are not reported as failures.
func (l *Logger) Sync() error {
	err := l.zap.Sync()
	if isStdoutSyncError(err) {
		return nil
	}
	return err
}

// Underlying exposes the wrapped *zap.Logger for callers that want a plain
// zap field set without the context-field machinery.
func (l *Logger) Underlying() *zap.Logger {
	return l.zap
}

func isStdoutSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return msg == "sync /dev/stderr: invalid argument" ||
		msg == "sync /dev/stderr: inappropriate ioctl for device"
}
