// Package api holds one free function per backend route. Each validates its
// input, builds a gateway.Call and decodes the envelope.
package api

import (
	"context"
	"net/url"

	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/types"
)

// Requester is satisfied by *gateway.Gateway.
type Requester interface {
	Request(ctx context.Context, c gateway.Call) (*gateway.Envelope, error)
}

func requireIdentity(identity string) error {
	if identity == "" {
		return types.ErrNoIdentity
	}
	return nil
}

func seg(s string) string { return url.PathEscape(s) }

func call[T any](ctx context.Context, r Requester, c gateway.Call) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, err := r.Request(ctx, c)
	if err != nil {
		return nil, err
	}
	out, err := gateway.Decode[T](env)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
