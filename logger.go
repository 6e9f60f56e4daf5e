package bimindex

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/bimindex/model"
)

// Logger wraps slog.Logger with bimindex-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithModel adds a model field to the logger.
func (l *Logger) WithModel(modelID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", modelID),
	}
}

// WithElement adds an element field to the logger.
func (l *Logger) WithElement(id model.ID) *Logger {
	return &Logger{
		Logger: l.Logger.With("element", uint64(id)),
	}
}

// LogRelationshipIndex logs a relationship index build.
func (l *Logger) LogRelationshipIndex(ctx context.Context, records, skipped int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "relationship index failed",
			"records", records,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "relationship index built",
			"records", records,
			"skipped", skipped,
			"duration", d,
		)
	}
}

// LogResolve logs a single element resolution.
func (l *Logger) LogResolve(ctx context.Context, id model.ID, found bool, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "resolve failed",
			"element", uint64(id),
			"error", err,
		)
	case !found:
		l.DebugContext(ctx, "element not found",
			"element", uint64(id),
		)
	default:
		l.DebugContext(ctx, "resolve completed",
			"element", uint64(id),
		)
	}
}

// LogElementIndex logs an element index build.
func (l *Logger) LogElementIndex(ctx context.Context, total, indexed int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "element index failed",
			"total", total,
			"indexed", indexed,
			"error", err,
		)
		return
	}
	if skipped := total - indexed; skipped > 0 {
		l.WarnContext(ctx, "element index completed with skipped elements",
			"total", total,
			"indexed", indexed,
			"skipped", skipped,
			"duration", d,
		)
	} else {
		l.InfoContext(ctx, "element index completed",
			"total", total,
			"duration", d,
		)
	}
}
