// Package logctx carries a zerolog logger inside a context.Context.
//
// The CLI attaches a configured logger once, then enriches it per file or
// per trace as work descends:
//
//	ctx = logctx.WithLogger(ctx, logctx.NewConfiguredLogger(debug, human))
//	ctx = logctx.WithPath(ctx, path)
//	log := logctx.FromContext(ctx)
package logctx

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/logging"
)

type loggerKey struct{}

var (
	defaultLogger     zerolog.Logger
	defaultLoggerOnce sync.Once
)

func initDefaultLogger() {
	defaultLoggerOnce.Do(func() {
		defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
}

// DefaultLogger returns the logger used when a context carries none. It
// writes JSON to stderr.
func DefaultLogger() zerolog.Logger {
	initDefaultLogger()
	return defaultLogger
}

// SetDefaultLogger overrides the default logger. Call it during
// initialization only.
func SetDefaultLogger(l zerolog.Logger) {
	initDefaultLogger()
	defaultLogger = l
}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context, falling back to the
// default logger. It never returns a zero-value logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return DefaultLogger()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger()
}

// WithStr returns a context whose logger carries an extra string field.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithPath tags the logger with the SEG-Y file being processed.
func WithPath(ctx context.Context, path string) context.Context {
	return WithStr(ctx, "path", path)
}

// WithTrace tags the logger with a trace ordinal.
func WithTrace(ctx context.Context, n int) context.Context {
	logger := FromContext(ctx).With().Int("trace", n).Logger()
	return WithLogger(ctx, logger)
}

// NewConfiguredLogger returns a stderr logger at Debug or Info level, in
// console form when human is set.
func NewConfiguredLogger(debug, human bool) zerolog.Logger {
	return logging.New(os.Stderr, debug, human)
}
