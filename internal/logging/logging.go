// Package logging initialises a [log/slog] logger from the application
// configuration and provides context-based logger propagation.
//
// Besides the standard slog levels it defines [LevelLifecycle], the level
// progress messages such as ":remapping minecraft (...)" are logged at. It
// sits between info and warn so that the default configuration shows
// progress while hiding informational chatter.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/srgjar/internal/config"
)

// LevelLifecycle is the level for user-facing progress messages.
const LevelLifecycle = slog.LevelInfo + 2

type ctxKey struct{}

// Setup creates a *slog.Logger configured according to cfg, writing to stderr,
// and installs it as the process-wide default via slog.SetDefault.
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWithWriter(cfg, os.Stderr)
}

// SetupWithWriter creates a *slog.Logger configured according to cfg, writing
// to w, and installs it as the process-wide default via slog.SetDefault.
// Use this variant in tests to capture or suppress log output.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := New(cfg, w)
	slog.SetDefault(logger)

	return logger
}

// New creates a *slog.Logger configured according to cfg without touching the
// process-wide default.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.EffectiveLogLevel()),
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default: // text
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelInfo:
		return slog.LevelInfo
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return LevelLifecycle
	}
}

// Lifecycle logs msg at LevelLifecycle.
func Lifecycle(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	logger.Log(ctx, LevelLifecycle, msg, args...)
}

// replaceLevel renders LevelLifecycle as "LIFECYCLE" instead of "INFO+2".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelLifecycle {
		a.Value = slog.StringValue("LIFECYCLE")
	}

	return a
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
