// Package logging sets up the global zerolog logger for both binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs a human-readable logger on stderr. Unknown levels fall
// back to info.
func Setup(level string) zerolog.Level {
	return SetupTo(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func SetupTo(w io.Writer, level string) zerolog.Level {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}
