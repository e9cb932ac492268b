package main

import (
	"io"
	"log/slog"
)

// newLogger returns the diagnostic logger: debug level with --debug, errors
// only with --quiet, warnings otherwise.
func newLogger(w io.Writer, debug, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
