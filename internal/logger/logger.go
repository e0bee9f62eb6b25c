// Package logger configures structured logging for the CLI and the webhook
// receiver, and carries request-scoped loggers through context.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const (
	loggerContextKey   contextKey = "logger"
	logAttrsContextKey contextKey = "logAttrs"
)

// InitLogger creates a logger for the given environment.
//
// Development environments get colorized, human-readable output via tint.
// Everything else gets JSON suitable for log aggregation.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "dev", "test":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler).With(slog.String("environment", environment))
}

// ParseLogLevel converts a log level string to slog.Level. Unknown values
// default to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ContextWithLogger returns a context carrying the logger.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, l)
}

// ContextRequestLogger returns the request-scoped logger from the context,
// or slog.Default() if none was attached.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// logAttrs accumulates attributes during request handling so the final
// request log line can include them.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithLogAttrsHolder returns a context with an empty attribute holder.
// Request logging middleware attaches one per request.
func ContextWithLogAttrsHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, logAttrsContextKey, &logAttrs{})
}

// ContextWithLogAttrs records attributes on the context's holder for
// inclusion in the final request log. A no-op if no holder is attached.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	holder, ok := ctx.Value(logAttrsContextKey).(*logAttrs)
	if !ok {
		return
	}
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.attrs = append(holder.attrs, attrs...)
}

// ContextLogAttrs returns the attributes recorded on the context's holder.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	holder, ok := ctx.Value(logAttrsContextKey).(*logAttrs)
	if !ok {
		return nil
	}
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return append([]slog.Attr(nil), holder.attrs...)
}
