// Package errreport wires optional Sentry error reporting, configured by
// the gateway's sentry.{dsn,environment,traces_sample_rate,debug} config
// block. A zero DSN disables reporting: Init becomes a no-op and Capture
// silently drops errors, so callers never need to special-case "disabled".
package errreport

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Config mirrors gwconfig.SentryConfig; kept separate so this package does
// not import gwconfig.
type Config struct {
	DSN              string
	Environment      string
	TracesSampleRate float64
	Debug            bool
}

// Init configures the global Sentry client per cfg. It returns a shutdown
// function that flushes buffered events; call it via defer regardless of
// whether reporting is enabled.
func Init(cfg Config) (shutdown func(), err error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
	}); err != nil {
		return nil, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Capture reports err to Sentry, if configured. Safe to call when
// reporting is disabled.
func Capture(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}
