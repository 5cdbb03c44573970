package querycache

import "time"

// Policy controls freshness, garbage collection and refetch triggers.
type Policy struct {
	StaleTime          time.Duration
	GCTime             time.Duration
	Retry              int
	RetryDelay         time.Duration
	RefetchOnReconnect bool
	RefetchOnFocus     bool
}

// DefaultPolicy: fresh for five minutes, collected ten minutes after the last
// observer leaves, two retries, refetch on reconnect but not on focus.
func DefaultPolicy() Policy {
	return Policy{
		StaleTime:          5 * time.Minute,
		GCTime:             10 * time.Minute,
		Retry:              2,
		RetryDelay:         time.Second,
		RefetchOnReconnect: true,
		RefetchOnFocus:     false,
	}
}
