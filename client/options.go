package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file makes it easy to discover
// all available knobs at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/originals/collab-client/client/internal/clock"
	"github.com/originals/collab-client/client/internal/coins"
	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/identity"
	"github.com/originals/collab-client/client/internal/query"
)

// Option configures a Client during construction in New.
//
// Options are applied before any component is built. Options must be
// deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse bound on a single HTTP request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Do not enable this in production; dumps
// include headers and bodies.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, already := c.http.Transport.(*debugTransport); !already {
				c.http.Transport = &debugTransport{base: c.http.Transport}
			}
		}
		return nil
	}
}

// WithLogger replaces the global zerolog logger for every component.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithTokenSource overrides where bearer tokens come from. By default the
// identity provider's AccessToken is used.
func WithTokenSource(ts gateway.TokenSource) Option {
	return func(c *Client) error {
		if ts == nil {
			return fmt.Errorf("token source cannot be nil")
		}
		c.tokens = ts
		return nil
	}
}

// WithIdentityStore replaces the SQLite wallet store.
func WithIdentityStore(s identity.Store) Option {
	return func(c *Client) error {
		if s == nil {
			return fmt.Errorf("identity store cannot be nil")
		}
		c.store = s
		return nil
	}
}

// WithCoinProvider replaces the HTTP coin data provider.
func WithCoinProvider(p coins.Provider) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("coin provider cannot be nil")
		}
		c.coinProvider = p
		return nil
	}
}

// WithNotifier routes write outcomes to n instead of the log.
func WithNotifier(n query.Notifier) Option {
	return func(c *Client) error {
		c.notifier = n
		return nil
	}
}

// WithClock injects a clock; tests use clock.Fake.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) error {
		if clk == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		c.clock = clk
		return nil
	}
}
