package api

import (
	"context"
	"net/http"

	"github.com/originals/collab-client/client/internal/gateway"
	"github.com/originals/collab-client/client/internal/types"
)

// OnboardingStatus reports whether wallet has onboarded. The flags live at
// the top level of the body rather than under data.
func OnboardingStatus(ctx context.Context, r Requester, wallet string) (*types.OnboardingStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireIdentity(wallet); err != nil {
		return nil, err
	}
	env, err := r.Request(ctx, gateway.Call{
		Method:   http.MethodGet,
		Path:     "/users/" + seg(wallet) + "/onboarding-status",
		Identity: wallet,
	})
	if err != nil {
		return nil, err
	}
	st, err := gateway.DecodeRaw[types.OnboardingStatus](env)
	if err != nil {
		return nil, err
	}
	if !st.Success {
		return nil, gatewayFailure(env)
	}
	return &st, nil
}

// CompleteOnboarding submits the onboarding profile for wallet.
func CompleteOnboarding(ctx context.Context, r Requester, wallet string, req types.OnboardingRequest) (*types.CompleteOnboardingResult, error) {
	if err := requireIdentity(wallet); err != nil {
		return nil, err
	}
	if req.ZoraWalletAddress == "" {
		req.ZoraWalletAddress = wallet
	}
	return call[types.CompleteOnboardingResult](ctx, r, gateway.Call{
		Method:   http.MethodPost,
		Path:     "/users/" + seg(wallet) + "/onboard",
		Body:     req,
		Identity: wallet,
	})
}

func gatewayFailure(env *gateway.Envelope) error {
	_, err := gateway.Decode[struct{}](&gateway.Envelope{Success: false, Status: env.Status, Error: env.Error})
	return err
}
