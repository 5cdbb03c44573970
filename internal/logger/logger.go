// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger writing to w, tagged with service.
// Call sites should use .Stack() on error events to include stacks.
func New(service string, w io.Writer) zerolog.Logger {
	installStackMarshaler()
	return zerolog.New(w).With().
		Str("service", service).
		Timestamp().
		Logger()
}

// Console returns a human-readable logger for interactive use.
func Console(w io.Writer) zerolog.Logger {
	installStackMarshaler()
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp().Logger()
}

// installStackMarshaler makes .Stack() work for std errors too by attaching a
// pkg/errors stack when none is present.
func installStackMarshaler() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}
