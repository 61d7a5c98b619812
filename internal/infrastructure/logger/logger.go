// Package logger configures the process-wide zerolog logger.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup builds a zerolog.Logger writing structured JSON to stdout and sets
// zerolog's global level to the given level. Any level name
// zerolog.ParseLevel accepts is used as is; a string it rejects falls
// back to info. The returned logger is not installed as a global logger.
func Setup(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return log
}

// Default returns a logger at info level, for callers (tests, one-off
// tools) that don't need the full Setup ceremony.
func Default() zerolog.Logger {
	return Setup("info")
}
