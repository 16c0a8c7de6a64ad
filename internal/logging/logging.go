// Package logging sets up the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
)

// Options controls logger construction.
type Options struct {
	// Quiet raises the level to warnings and errors only.
	Quiet bool
	// Verbose lowers the level to include debug output. Quiet wins
	// when both are set.
	Verbose bool
}

// New builds a text logger writing to stderr.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Quiet:
		level = slog.LevelWarn
	case opts.Verbose:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Setup builds a logger and installs it as the slog default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}
