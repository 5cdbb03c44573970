package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408: // Request Timeout - can retry
			return Recoverable
		case 429: // Too Many Requests - should retry with backoff
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// NewHTTPError builds the failure for a non-success response. code and message
// come from the response body and fall back to CodeUnknown and a generic
// message when absent.
func NewHTTPError(statusCode int, code, message string) *APIError {
	if code == "" {
		code = CodeUnknown
	}
	if message == "" {
		message = "An unknown error occurred"
	}
	return &APIError{Code: code, Message: message, Status: statusCode}
}

// NewNetworkError creates the failure for a request that never received a
// response. Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *APIError {
	msg := "Network error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{
		Code:    CodeNetwork,
		Message: msg,
		Err:     fmt.Errorf("%s network error: %w", operation, err),
	}
}

// networkHints are lower-cased fragments that mark a connectivity failure in
// an error message.
var networkHints = []string{
	"failed to fetch",
	"network",
	"connection refused",
	"connection reset",
	"no such host",
	"timeout",
	"i/o timeout",
}

// IsNetworkError reports whether err looks like a connectivity problem: either
// a gateway failure with CodeNetwork, or an error that never got a response
// and whose message carries one of the known hints. Failures the backend
// answered with a status are never connectivity problems.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.Code == CodeNetwork {
			return true
		}
		if apiErr.Status != 0 {
			return false
		}
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range networkHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
