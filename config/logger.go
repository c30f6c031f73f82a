package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. When GO_ENV is
// "production" records are emitted as JSON; every other environment gets the
// human-readable text handler. LOG_LEVEL selects the minimum level.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// logLevel maps a LOG_LEVEL value to a slog level. Unknown or empty values
// fall back to info.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
