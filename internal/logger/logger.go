package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the application logger: readable text at debug level outside
// production, JSON at info level in production.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
}

// Init creates the logger on stdout and installs it as the slog default.
func Init(production bool) *slog.Logger {
	log := New(os.Stdout, production)
	slog.SetDefault(log)
	return log
}
