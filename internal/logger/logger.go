// Package logger builds the zerolog loggers used across scopekv.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string    // debug, info, warn, error
	Pretty bool      // human-readable console format
	Output io.Writer // defaults to stderr
}

// New creates a logger. An unknown level falls back to info.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if cfg.Output != nil {
		writer = cfg.Output
	}
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ErrorSink reports unexpected errors that callers chose not to propagate.
type ErrorSink struct {
	log zerolog.Logger
}

// NewErrorSink creates an ErrorSink writing to log.
func NewErrorSink(log zerolog.Logger) *ErrorSink {
	return &ErrorSink{log: log}
}

// Unexpected logs err at error level.
func (s *ErrorSink) Unexpected(err error) {
	if err == nil {
		return
	}
	s.log.Error().
		Err(err).
		Bool("unexpected", true).
		Msg("Unexpected error")
}
