package dyngeo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with dyngeo-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogPut logs a put-point operation.
func (l *Logger) LogPut(ctx context.Context, hashKey int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "put point failed",
			"hash_key", hashKey,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "put point completed",
			"hash_key", hashKey,
		)
	}
}

// LogBatchWrite logs a batch write operation.
func (l *Logger) LogBatchWrite(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch write failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch write completed",
			"count", count,
		)
	}
}

// LogQuery logs a fan-out geo query.
func (l *Logger) LogQuery(ctx context.Context, kind string, plans, items, filtered int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "geo query failed",
			"kind", kind,
			"plans", plans,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "geo query completed",
			"kind", kind,
			"plans", plans,
			"items", items,
			"filtered", filtered,
		)
	}
}

// LogSkippedItem logs a candidate row excluded by the geometric filter
// because its coordinates could not be recovered.
func (l *Logger) LogSkippedItem(ctx context.Context, reason string) {
	l.DebugContext(ctx, "candidate row skipped",
		"reason", reason,
	)
}
