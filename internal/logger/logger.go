// Package logger configures the process-wide zerolog logger from the
// logging section of the config.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/config"
)

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init installs the global logger and returns it. Unknown levels fall back
// to info.
func Init(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	log.Logger = New(os.Stdout, cfg.Format)
	log.Info().
		Str("level", zerolog.GlobalLevel().String()).
		Str("format", cfg.Format).
		Msg("Logger initialized")
	return log.Logger
}

// New builds a timestamped logger writing to w. "json" writes one JSON
// object per line, anything else the human readable console format.
func New(w io.Writer, format string) zerolog.Logger {
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns the global logger tagged with a component name
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}
