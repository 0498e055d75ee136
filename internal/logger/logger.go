package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// InitLogger initializes and configures the application logger based on environment.
// LOG_LEVEL (debug, info, warn, error) overrides the environment default.
func InitLogger(environment string) *slog.Logger {
	logger := New(os.Stdout, environment, os.Getenv("LOG_LEVEL"))

	// Set as default logger so it can be used throughout the application
	slog.SetDefault(logger)

	return logger
}

// New builds a logger writing to w without touching the default logger
func New(w io.Writer, environment, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if environment == "development" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(w, withLevel(opts, level))
	} else {
		handler = slog.NewJSONHandler(w, withLevel(opts, level))
	}

	return slog.New(handler)
}

func withLevel(opts *slog.HandlerOptions, level string) *slog.HandlerOptions {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	return opts
}
