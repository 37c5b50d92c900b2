// Package sentryutil wraps sentry-go initialisation and capture.
package sentryutil

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/leoorbiters/leoorbiters/internal/config"
	"github.com/rs/zerolog"
)

// Init configures the global Sentry hub. An empty DSN disables reporting
// without error.
func Init(cfg config.SentryConfig, release string, logger zerolog.Logger) {
	if cfg.DSN == "" {
		logger.Info().Msg("Sentry DSN not set, error reporting disabled")
		return
	}
	if cfg.Release != "" {
		release = cfg.Release
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		TracesSampleRate: 0.2,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			event.User = sentry.User{}
			return event
		},
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Sentry init failed, continuing without error reporting")
		return
	}
	logger.Info().Str("environment", cfg.Environment).Msg("Sentry initialised")
}

// Flush waits for buffered events to be delivered
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with tags; nil is ignored
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
