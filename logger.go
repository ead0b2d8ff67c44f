package flagmask

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with flagmask-specific helpers.
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

// WithFlag adds a flag name field to the logger.
func (l *Logger) WithFlag(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("flag", name),
	}
}

// LogRegister logs a flag registration.
func (l *Logger) LogRegister(name string, bit int, width Width, err error) {
	ctx := context.Background()
	fl := l.WithFlag(name)
	if err != nil {
		fl.WarnContext(ctx, "flag registration rejected",
			"width", int(width),
			"error", err,
		)
		return
	}
	fl.DebugContext(ctx, "flag registered",
		"bit", bit,
		"width", int(width),
	)
}

// LogRemove logs a flag removal.
func (l *Logger) LogRemove(name string, bit int) {
	l.WithFlag(name).DebugContext(context.Background(), "flag removed",
		"bit", bit,
	)
}

// LogPromotion logs a strip width promotion.
func (l *Logger) LogPromotion(from, to Width, size int) {
	l.InfoContext(context.Background(), "strip width promoted",
		"from", int(from),
		"to", int(to),
		"entities", size,
	)
}

// LogMutation logs a rejected mutation.
func (l *Logger) LogMutation(op Op, ids int, err error) {
	if err == nil {
		return
	}
	l.DebugContext(context.Background(), "mutation rejected",
		"op", string(op),
		"ids", ids,
		"error", err,
	)
}
