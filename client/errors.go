package client

import (
	cerr "github.com/originals/collab-client/client/internal/errors"
	"github.com/originals/collab-client/client/internal/query"
	"github.com/originals/collab-client/client/internal/shardqueue"
	"github.com/originals/collab-client/client/internal/types"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	ErrNotFound     = types.ErrNotFound
	ErrNoIdentity   = types.ErrNoIdentity
	ErrPingInFlight = query.ErrPingInFlight
	// ErrBackPressure is returned when the refetch queue stays full.
	ErrBackPressure = shardqueue.ErrQueueFull
)

// APIError is the typed failure returned for backend and transport errors.
type APIError = cerr.APIError

// Error codes used when the backend supplies none.
const (
	CodeUnknown = cerr.CodeUnknown
	CodeNetwork = cerr.CodeNetwork
)

// IsNetworkError reports whether err is a connectivity failure rather than a
// backend-reported one.
func IsNetworkError(err error) bool { return cerr.IsNetworkError(err) }

// ErrorCode returns the machine-readable code carried by err, if any.
func ErrorCode(err error) string { return cerr.Code(err) }
