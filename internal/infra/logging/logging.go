package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewJSON returns a JSON logger writing to w at level. attrs are attached
// to every record.
func NewJSON(w io.Writer, level slog.Level, attrs ...any) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).With(attrs...)
}

// SetupJSON makes a stdout JSON logger at level the slog default and
// returns it.
func SetupJSON(level slog.Level, attrs ...any) *slog.Logger {
	logger := NewJSON(os.Stdout, level, attrs...)
	slog.SetDefault(logger)

	return logger
}
