package api

import (
	"context"
	"net/http"

	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/types"
)

// Matches lists the matches of wallet.
func Matches(ctx context.Context, r Requester, wallet string, f types.MatchFilters) (*types.MatchesPage, error) {
	if err := requireIdentity(wallet); err != nil {
		return nil, err
	}
	return call[types.MatchesPage](ctx, r, gateway.Call{
		Method:   http.MethodGet,
		Path:     "/wallets/" + seg(wallet) + "/matches",
		Query:    f.Values(),
		Identity: wallet,
	})
}

// Messages pages through a match thread.
func Messages(ctx context.Context, r Requester, identity, matchID string, f types.MessageFilters) (*types.MessagesPage, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("match", matchID); err != nil {
		return nil, err
	}
	return call[types.MessagesPage](ctx, r, gateway.Call{
		Method:   http.MethodGet,
		Path:     "/matches/" + seg(matchID) + "/messages",
		Query:    f.Values(),
		Identity: identity,
	})
}

// SendMessage appends to a match thread.
func SendMessage(ctx context.Context, r Requester, identity, matchID string, req types.SendMessageRequest) (*types.SendMessageResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("match", matchID); err != nil {
		return nil, err
	}
	if req.MessageType == "" {
		req.MessageType = types.MessageText
	}
	if err := types.ValidateSendMessage(req); err != nil {
		return nil, err
	}
	return call[types.SendMessageResult](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/matches/" + seg(matchID) + "/messages",
		Body:     req,
		Identity: identity,
	})
}

// MarkMessagesRead marks every message in the thread read for identity.
func MarkMessagesRead(ctx context.Context, r Requester, identity, matchID string) (*types.Ack, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := types.ValidateID("match", matchID); err != nil {
		return nil, err
	}
	return call[types.Ack](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/matches/" + seg(matchID) + "/messages/read",
		Identity: identity,
	})
}
