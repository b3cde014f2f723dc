// Package logger - zerolog construction for the device binary.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/nvr-ai/go-ebv/config"
	"github.com/rs/zerolog"
)

// New builds the process logger from configuration, writing to stdout.
//
// @example
// log := logger.New(cfg.Log)
// log.Info().Str("resolution", "WVGA752").Msg("starting")
func New(cfg config.Log) zerolog.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter builds a logger writing to w. The "console" format renders
// human-readable lines; anything else emits JSON. An unparsable level falls back to info.
func NewWithWriter(w io.Writer, cfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Component derives a child logger tagged with a component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
