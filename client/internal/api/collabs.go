package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/types"
)

// Feed lists open postings. identity is optional.
func Feed(ctx context.Context, r Requester, identity string, f types.FeedFilters) (*types.FeedPage, error) {
	return call[types.FeedPage](ctx, r, gateway.Call{
		Method:   http.MethodGet,
		Path:     "/collabs/feed",
		Query:    f.Values(),
		Identity: identity,
	})
}

// CreatePosting publishes a new posting owned by identity.
func CreatePosting(ctx context.Context, r Requester, identity string, req types.CreatePostingRequest) (*types.CreatePostingResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateCreatePosting(req); err != nil {
		return nil, err
	}
	return call[types.CreatePostingResult](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/collabs",
		Body:     req,
		Identity: identity,
	})
}

// UpdatePostingStatus moves a posting through its lifecycle.
func UpdatePostingStatus(ctx context.Context, r Requester, identity, id string, status types.PostingStatus) (*types.Ack, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("posting", id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid posting status %q", status)
	}
	return call[types.Ack](ctx, r, gateway.Call{
		Method:   http.MethodPatch,
		Path:     "/collabs/" + seg(id),
		Body:     types.UpdatePostingStatusRequest{Status: status},
		Identity: identity,
	})
}

// PingPosting expresses interest in a posting.
func PingPosting(ctx context.Context, r Requester, identity, id string, req types.PingRequest) (*types.PingResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("posting", id); err != nil {
		return nil, err
	}
	if err := types.ValidatePing(req); err != nil {
		return nil, err
	}
	return call[types.PingResult](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/collabs/" + seg(id) + "/ping",
		Body:     req,
		Identity: identity,
	})
}
