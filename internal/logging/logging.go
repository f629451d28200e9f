package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Debug output must be opted
// into explicitly; even then secrets stay out of the stream.
func Init(env string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// Redact replaces a secret with a fixed marker so log statements can show
// presence without value.
func Redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[redacted]"
}
