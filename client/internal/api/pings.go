package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/types"
)

// ReceivedPings lists pings on postings owned by wallet.
func ReceivedPings(ctx context.Context, r Requester, wallet string, f types.PingFilters) (*types.PingsPage, error) {
	if err := requireIdentity(wallet); err != nil {
		return nil, err
	}
	return call[types.PingsPage](ctx, r, gateway.Call{
		Method:   http.MethodGet,
		Path:     "/wallets/" + seg(wallet) + "/pings/received",
		Query:    f.Values(),
		Identity: wallet,
	})
}

// RespondToPing accepts or declines a ping. An accept may create a match.
func RespondToPing(ctx context.Context, r Requester, identity, pingID string, action types.PingAction) (*types.RespondResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("ping", pingID); err != nil {
		return nil, err
	}
	if !action.Valid() {
		return nil, fmt.Errorf("invalid ping action %q", action)
	}
	return call[types.RespondResult](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/pings/" + seg(pingID) + "/respond",
		Body:     types.RespondRequest{Action: action},
		Identity: identity,
	})
}
