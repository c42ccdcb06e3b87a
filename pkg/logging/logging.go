// Package logging configures structured logging for the fundkeeper binaries.
//
// Usage:
//
//	logger := logging.Setup("info", "text") // colored output via tint
//	logger := logging.Setup("debug", "json") // one JSON object per line
//
// The LOG_LEVEL environment variable overrides the level when set.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs and returns a logger writing to stderr.
func Setup(level, format string) *slog.Logger {
	return SetupWriter(os.Stderr, level, format)
}

// SetupWriter installs and returns a logger writing to w.
func SetupWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		lvl = ParseLevel(env)
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			AddSource:  lvl == slog.LevelDebug,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps debug, warn and error to their slog levels; anything else
// is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
