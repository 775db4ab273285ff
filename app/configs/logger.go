package configs

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func NewLogger(env ENV) zerolog.Logger {
	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if env.IsProduction() {
		log = zerolog.New(os.Stdout)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Level(level).With().Timestamp().Str("app", "catalog-api").Logger()
}

// NamedLogger returns a child logger tagged with the component name.
func NamedLogger(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("name", name).Logger()
}
