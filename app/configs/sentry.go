package configs

import (
	"github.com/getsentry/sentry-go"
)

// InitSentry is a no-op when SENTRY_DSN is empty; the sentry hub then drops events.
func InitSentry(env ENV) error {
	if env.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         env.SentryDSN,
		Environment: env.AppEnv,
	})
}
