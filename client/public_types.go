package client

import (
	"github.com/originals/collab-client/client/internal/coins"
	"github.com/originals/collab-client/client/internal/identity"
	"github.com/originals/collab-client/client/internal/onboarding"
	"github.com/originals/collab-client/client/internal/query"
	"github.com/originals/collab-client/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreatePostingRequest = types.CreatePostingRequest
	SendMessageRequest   = types.SendMessageRequest
	OnboardingRequest    = types.OnboardingRequest
	OnboardingProfile    = types.OnboardingProfile

	// Filters
	FeedFilters    = types.FeedFilters
	PingFilters    = types.PingFilters
	MatchFilters   = types.MatchFilters
	MessageFilters = types.MessageFilters
	FeedFilter     = types.FeedFilter

	// Domain entities
	Posting          = types.Posting
	CollaboratorRole = types.CollaboratorRole
	CoinData         = types.CoinData
	Ping             = types.Ping
	Match            = types.Match
	Message          = types.Message
	UserProfile      = types.UserProfile
	PaymentType      = types.PaymentType
	WorkStyle        = types.WorkStyle
	PostingStatus    = types.PostingStatus
	PingStatus       = types.PingStatus
	PingAction       = types.PingAction
	MatchStatus      = types.MatchStatus
	MessageType      = types.MessageType

	// Responses
	FeedPage                 = types.FeedPage
	PingsPage                = types.PingsPage
	MatchesPage              = types.MatchesPage
	MessagesPage             = types.MessagesPage
	CreatePostingResult      = types.CreatePostingResult
	PingResult               = types.PingResult
	RespondResult            = types.RespondResult
	SendMessageResult        = types.SendMessageResult
	Ack                      = types.Ack
	OnboardingStatus         = types.OnboardingStatus
	CompleteOnboardingResult = types.CompleteOnboardingResult

	// Identity
	IdentityProvider = identity.Provider
	User             = identity.User
	LinkedAccount    = identity.LinkedAccount
	Wallet           = identity.Wallet
	StaticProvider   = identity.Static
	IdentityStore    = identity.Store

	// Onboarding
	OnboardingState    = onboarding.State
	OnboardingSnapshot = onboarding.Snapshot

	// Coins
	CoinProvider = coins.Provider
	CoinProfile  = coins.Profile

	// Queries
	Notifier    = query.Notifier
	LogNotifier = query.LogNotifier
)

// Onboarding states.
const (
	OnboardingUnknown      = onboarding.Unknown
	OnboardingChecking     = onboarding.Checking
	OnboardingOnboarded    = onboarding.Onboarded
	OnboardingNotOnboarded = onboarding.NotOnboarded
	OnboardingErrored      = onboarding.Errored
)

// Ping actions.
const (
	ActionAccept  = types.ActionAccept
	ActionDecline = types.ActionDecline
)

// AccountCrossApp marks the linked account type that carries smart wallets.
const AccountCrossApp = identity.AccountCrossApp

// NewStaticProvider returns a ready provider for user; nil means signed out.
func NewStaticProvider(user *User, token string) *StaticProvider {
	return identity.NewStatic(user, token)
}

// DisplayName renders a coin profile name, falling back to a shortened
// wallet handle.
func DisplayName(p *CoinProfile, wallet string) string { return coins.DisplayName(p, wallet) }
