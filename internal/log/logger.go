// Package log wraps log/slog with component-scoped loggers and the HTTP
// request-logging middleware used by the server.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger scoped to a named component.
type Logger struct {
	*slog.Logger
}

// New creates a text logger for the given component at the given level.
func New(component string, level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler).With("component", component)}
}

// WithComponent returns a child logger for a sub-component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}
