// Package logger provides structured logging for Windward.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

// Logger is the logging interface used throughout Windward. It mirrors the
// slog call surface so components can log structured key/value pairs without
// binding to a concrete handler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// Debug logs a debug message.
func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

// Info logs an info message.
func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

// Warn logs a warning message.
func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

// Error logs an error message.
func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

// With returns a new logger with additional attributes.
func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// WithGroup returns a new logger with a named group.
func (s *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{l: s.l.WithGroup(name)}
}

var (
	globalMu sync.RWMutex
	global   Logger = newSlogLogger("info", "text")
)

func newSlogLogger(level, format string) Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return &slogLogger{l: slog.New(handler)}
}

// SetupLogger configures the global logger from a level name
// (debug, info, warn, error) and an output format (text, json),
// and returns it.
func SetupLogger(level, format string) Logger {
	l := newSlogLogger(level, format)
	SetGlobalLogger(l)
	return l
}

// GetGlobalLogger returns the current global logger.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetGlobalLogger replaces the global logger. Intended for tests and for
// the CLI entry point.
func SetGlobalLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}
