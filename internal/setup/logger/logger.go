package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a JSON logger on stdout.
func New(level string) zerolog.Logger {
	return build(os.Stdout, level)
}

// NewForFormat returns a console logger on stderr unless format is "json".
// stdout stays free for binaries that speak a protocol on it.
func NewForFormat(format, level string) zerolog.Logger {
	if format == "json" {
		return New(level)
	}
	return build(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

func build(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
