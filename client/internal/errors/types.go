// Package errors provides error classification for the client SDK.
// This enables different retry policies based on error recoverability and
// lets callers tell connectivity failures apart from backend-reported ones.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors should be retried with exponential backoff.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: 401 Unauthorized, 403 Forbidden, 400 Bad Request.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Machine-readable codes used when the backend did not supply one.
const (
	CodeUnknown  = "UNKNOWN_ERROR"
	CodeNetwork  = "NETWORK_ERROR"
	CodeNoWallet = "NO_WALLET"
)

// APIError is the typed failure surfaced by the gateway. Status is zero when
// no response was received.
type APIError struct {
	Code    string
	Message string
	Status  int
	Err     error // transport error, if any
}

// Error implements the error interface. Only the message is rendered so it can
// be shown to users verbatim.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap returns the underlying transport error for error chain compatibility.
func (e *APIError) Unwrap() error { return e.Err }

// Category classifies the failure for retry policies.
func (e *APIError) Category() ErrorCategory {
	if e.Status == 0 {
		return Recoverable
	}
	return getHTTPErrorCategory(e.Status)
}

type categorized interface{ Category() ErrorCategory }

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var c categorized
	if stderrors.As(err, &c) {
		return c.Category() == Irrecoverable
	}
	return false
}

// Code returns the machine-readable code carried by err, or "" when err is not
// an *APIError.
func Code(err error) string {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
