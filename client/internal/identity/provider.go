package identity

import (
	"context"
	"sync"
)

// AccountCrossApp marks a linked account that carries smart wallets.
const AccountCrossApp = "cross_app"

// Wallet is an on-chain address owned by the user.
type Wallet struct {
	Address string `json:"address"`
}

// LinkedAccount is an account linked to the user by the auth provider.
type LinkedAccount struct {
	Type         string   `json:"type"`
	SmartWallets []Wallet `json:"smartWallets,omitempty"`
}

// User is the auth provider's view of the signed-in user.
type User struct {
	ID             string          `json:"id"`
	LinkedAccounts []LinkedAccount `json:"linkedAccounts,omitempty"`
	Wallet         *Wallet         `json:"wallet,omitempty"`
}

// Provider is the external authentication collaborator.
type Provider interface {
	Ready() bool
	Authenticated() bool
	User() *User
	Login(ctx context.Context) error
	AccessToken(ctx context.Context) (string, error)
}

// Static is a Provider with fixed, replaceable state. The CLI and tests use it.
type Static struct {
	mu    sync.RWMutex
	ready bool
	auth  bool
	user  *User
	token string
	login func(ctx context.Context) error
}

// NewStatic returns a ready provider for user. A nil user is unauthenticated.
func NewStatic(user *User, token string) *Static {
	return &Static{ready: true, auth: user != nil, user: user, token: token}
}

func (s *Static) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Static) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

func (s *Static) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Static) AccessToken(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Login runs the hook installed by OnLogin, if any.
func (s *Static) Login(ctx context.Context) error {
	s.mu.RLock()
	fn := s.login
	s.mu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// SetReady toggles readiness.
func (s *Static) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// SetUser replaces the signed-in user. nil signs out.
func (s *Static) SetUser(user *User, token string) {
	s.mu.Lock()
	s.user, s.auth, s.token = user, user != nil, token
	s.mu.Unlock()
}

// OnLogin installs the hook run by Login.
func (s *Static) OnLogin(fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.login = fn
	s.mu.Unlock()
}
