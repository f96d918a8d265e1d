// Package log provides the library-wide logger, currently used by the
// registry package and by cmd/zenctl. It is silent by default; callers
// that want diagnostics call Init before using the archive package.
package log

import (
	"io"
	"log/slog"
	"os"
)

// L is the package logger. It discards everything until Init is called.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures Init.
type Options struct {
	Enabled bool       // if false, all logging is discarded
	Output  io.Writer  // defaults to os.Stderr when Enabled and nil
	Level   slog.Level // minimum level; default LevelInfo when zero
}

// Init configures the package logger. Call it once, before constructing
// any Archive, if diagnostics are wanted.
func Init(opts Options) {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}

	L = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
