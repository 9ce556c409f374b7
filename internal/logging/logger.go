package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to file at level. The overlay owns the
// terminal, so there is no console sink: when file is empty, "off", or
// cannot be opened, a no-op logger is returned.
func New(level, file string) (zerolog.Logger, io.Closer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	if file == "" || file == "off" {
		return zerolog.Nop(), nopCloser{}
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return zerolog.Nop(), nopCloser{}
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nopCloser{}
	}

	return NewWithWriter(f, lvl), f
}

// NewWithWriter builds the structured logger used throughout the app.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", "pluck").
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
