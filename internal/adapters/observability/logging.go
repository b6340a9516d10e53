package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the service logger: console output for APP_ENV=dev or
// development, JSON lines otherwise. Debug level is enabled in dev.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("service", "tour-catalog").Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "tour-catalog").Logger()
}
