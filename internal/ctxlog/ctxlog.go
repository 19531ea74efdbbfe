// Package ctxlog carries a *slog.Logger through context.Context so that
// engine packages never reach for a global logger.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported so other packages cannot collide with our context key.
type key struct{}

var loggerKey = key{}

// WithLogger returns a child context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger placed by WithLogger. A missing logger is
// a wiring bug in the caller, so it panics rather than silently logging to
// the wrong destination.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}

// With is shorthand for FromContext(ctx).With(args...), used by the engine
// to scope log lines to a blueprint or action.
func With(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
