package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alkime/carepost/internal/config"
)

// SetupLogger configures structured logging based on environment.
func SetupLogger(cfg *config.Config) *slog.Logger {
	logger := New(os.Stdout, Level(cfg))

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}

// Level resolves the log level from the environment and LOG_LEVEL.
func Level(cfg *config.Config) slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if cfg.Env == "development" {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError)
}
