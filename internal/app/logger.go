package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's own slog.Logger writing to outW. The global
// default logger is left untouched so each App instance stays isolated.
// Unrecognised level strings fall back to info; the CLI layer rejects them
// before they get here.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
