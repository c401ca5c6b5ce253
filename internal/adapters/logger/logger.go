// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"log/slog"
	"maps"
	"os"
	"slices"

	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/ports"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
}

// New creates a new Logger writing human-readable output to stderr, keeping
// stdout free for command output.
func New() ports.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn(msg)
}

// Error logs an error. Metadata attached through zerr surfaces as structured
// attributes, sorted by key so repeated runs log identically.
func (l *Logger) Error(err error) {
	attrs := []any{"error", err}

	var zErr *zerr.Error
	if errors.As(err, &zErr) {
		meta := zErr.Metadata()
		for _, key := range slices.Sorted(maps.Keys(meta)) {
			attrs = append(attrs, key, meta[key])
		}
	}

	l.logger.Error("operation failed", attrs...)
}
