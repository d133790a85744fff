package bitspin

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bitspin-specific context.
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

// WithRun adds a run id field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("n", n),
	}
}

// WithTier adds a tier field to the logger.
func (l *Logger) WithTier(tier int) *Logger {
	return &Logger{
		Logger: l.Logger.With("tier", tier),
	}
}

// LogRotation logs a timed engine rotation checked against the reference.
func (l *Logger) LogRotation(ctx context.Context, n int, took, reference time.Duration, passed bool) {
	if !passed {
		l.ErrorContext(ctx, "rotation mismatch",
			"n", n,
			"took", took,
			"reference", reference,
		)
		return
	}
	l.DebugContext(ctx, "rotation completed",
		"n", n,
		"took", took,
		"reference", reference,
	)
}

// LogTier logs one probe of the tier search.
func (l *Logger) LogTier(ctx context.Context, tier, n int, took, cutoff time.Duration) {
	if took >= cutoff {
		l.InfoContext(ctx, "tier timed out",
			"tier", tier,
			"n", n,
			"took", took,
			"cutoff", cutoff,
		)
		return
	}
	l.DebugContext(ctx, "tier passed",
		"tier", tier,
		"n", n,
		"took", took,
	)
}

// LogCorrectness logs one round of the correctness sweep.
func (l *Logger) LogCorrectness(ctx context.Context, test, n int, took time.Duration, passed bool) {
	if !passed {
		l.ErrorContext(ctx, "incorrectly rotated matrix",
			"test", test,
			"n", n,
		)
		return
	}
	l.DebugContext(ctx, "correctness round passed",
		"test", test,
		"n", n,
		"took", took,
	)
}

// LogFile logs a matrix read from or written to a blob store.
func (l *Logger) LogFile(ctx context.Context, op, name string, n int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, op+" completed",
		"name", name,
		"n", n,
	)
}
