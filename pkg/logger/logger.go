package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Init sets up the default slog logger.
//
// The level is one of debug, info, warn and error (case-insensitive). Unknown values default to info.
// When pretty is true, the output is human-readable text, otherwise it is JSON.
func Init(w io.Writer, level string, pretty bool) {
	slog.SetDefault(slog.New(NewHandler(w, level, pretty)))
}

// NewHandler returns the slog handler that Init installs.
func NewHandler(w io.Writer, level string, pretty bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if pretty {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
