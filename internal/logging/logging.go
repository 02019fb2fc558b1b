// Package logging configures the process-wide zerolog logger used by the
// CLI and the batch pipeline.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	SetOutput(os.Stderr)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetOutput sends human-readable log lines to w.
func SetOutput(w io.Writer) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    w != os.Stderr,
	}).With().Timestamp().Str("app", "rawpng").Logger()
}

// SetVerbose switches debug output on or off.
func SetVerbose(v bool) {
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}
