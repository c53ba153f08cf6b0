// Package logger holds the command line options for the process logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger options, embedded as a go-flags group.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"console" choice:"json" default:"console"`
}

// Setup configures the global logger and returns it.
func (l Logger) Setup() zerolog.Logger {
	return l.SetupWriter(os.Stderr)
}

// SetupWriter configures the global logger to write to w.
func (l Logger) SetupWriter(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	if err != nil {
		log.Warn().Str("level", l.Level).Msg("Unknown log level, using info")
	}
	return log.Logger
}
