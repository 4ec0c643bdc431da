// Package logging builds the zerolog logger used by the httpgen commands.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to w. Unknown levels fall back to info and
// unknown formats to the console writer.
func New(w io.Writer, level, format string) zerolog.Logger {
	var l zerolog.Logger
	if strings.EqualFold(format, FormatJSON) {
		l = zerolog.New(w).With().Timestamp().Logger()
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    true,
		}).With().Timestamp().Logger()
	}

	zLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		zLevel = zerolog.InfoLevel
	}
	return l.Level(zLevel)
}

// Level maps the --verbose switch to a level name.
func Level(verbose bool) string {
	if verbose {
		return zerolog.LevelDebugValue
	}
	return zerolog.LevelInfoValue
}
