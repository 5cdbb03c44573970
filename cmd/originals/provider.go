package main

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/originals/collab-client/client"
)

// providerFromEnv stands in for the wallet authentication flow:
// ORIGINALS_SMART_WALLET is a cross-app smart wallet, ORIGINALS_WALLET an
// embedded wallet, ORIGINALS_ACCESS_TOKEN the bearer token. With neither
// wallet set the session is signed out.
func providerFromEnv(now time.Time) *client.StaticProvider {
	token := usableToken(os.Getenv("ORIGINALS_ACCESS_TOKEN"), now)
	smart := os.Getenv("ORIGINALS_SMART_WALLET")
	embedded := os.Getenv("ORIGINALS_WALLET")
	if smart == "" && embedded == "" {
		return client.NewStaticProvider(nil, token)
	}

	user := &client.User{ID: "cli"}
	if smart != "" {
		user.LinkedAccounts = []client.LinkedAccount{{
			Type:         client.AccountCrossApp,
			SmartWallets: []client.Wallet{{Address: smart}},
		}}
	}
	if embedded != "" {
		user.Wallet = &client.Wallet{Address: embedded}
	}
	return client.NewStaticProvider(user, token)
}

// usableToken drops JWTs that have already expired. The signature is not
// checked; the backend does that. Opaque tokens pass through.
func usableToken(raw string, now time.Time) string {
	if raw == "" {
		return ""
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		log.Debug().Err(err).Msg("access token is not a JWT, sending as is")
		return raw
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		log.Warn().Time("expired_at", claims.ExpiresAt.Time).Msg("access token expired, continuing without it")
		return ""
	}
	return raw
}
