// Package logging configures the process-wide zerolog logger.
//
// Every component logs through github.com/rs/zerolog/log once Setup has run:
//
//	logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout)
//	log.Info().Str("addr", addr).Msg("Starting server")
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel maps a level name to a zerolog level, falling back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New builds a timestamped logger writing to w in the given format.
func New(level, format string, w io.Writer) zerolog.Logger {
	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Setup replaces the global logger and returns it.
func Setup(level, format string, w io.Writer) zerolog.Logger {
	logger := New(level, format, w)
	log.Logger = logger
	return logger
}
