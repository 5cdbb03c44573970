package query

import (
	"github.com/rs/zerolog"
)

// Notifier surfaces the outcome of writes to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Success(msg string) { n.Log.Info().Msg(msg) }

func (n LogNotifier) Failure(msg string, err error) { n.Log.Warn().Err(err).Msg(msg) }

type nopNotifier struct{}

func (nopNotifier) Success(string)        {}
func (nopNotifier) Failure(string, error) {}

// failureMessage prefers the error's own message, like the backend's
// user-facing messages, and falls back to a generic one.
func failureMessage(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
