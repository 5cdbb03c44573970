package types

// ------------------------------
// Response Types
// ------------------------------

// Pagination accompanies every list response.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// FeedPage is the data of GET /collabs/feed.
type FeedPage struct {
	Collabs    []Posting  `json:"collabs"`
	Pagination Pagination `json:"pagination"`
}

// PingsPage is the data of GET /wallets/{wallet}/pings/received.
type PingsPage struct {
	Pings      []Ping     `json:"pings"`
	Pagination Pagination `json:"pagination"`
}

// Without returns a copy of the page with the ping id removed. The receiver's
// slice is never modified so snapshots taken before the call stay intact.
func (p PingsPage) Without(id string) PingsPage {
	out := PingsPage{Pagination: p.Pagination, Pings: make([]Ping, 0, len(p.Pings))}
	for _, ping := range p.Pings {
		if ping.ID != id {
			out.Pings = append(out.Pings, ping)
		}
	}
	return out
}

// MatchesPage is the data of GET /wallets/{wallet}/matches.
type MatchesPage struct {
	Matches    []Match    `json:"matches"`
	Pagination Pagination `json:"pagination"`
}

// MessagesPage is the data of GET /matches/{id}/messages.
type MessagesPage struct {
	Messages   []Message  `json:"messages"`
	Pagination Pagination `json:"pagination"`
}

// CreatePostingResult is the data of POST /collabs.
type CreatePostingResult struct {
	ID          string `json:"id"`
	CoinAddress string `json:"coinAddress"`
	CoinMinted  bool   `json:"coinMinted"`
	Message     string `json:"message"`
}

// PingResult is the data of POST /collabs/{id}/ping.
type PingResult struct {
	PingID  string `json:"pingId"`
	Message string `json:"message"`
}

// RespondResult is the data of POST /pings/{id}/respond. MatchID is set when
// an accept created a match.
type RespondResult struct {
	MatchID string `json:"matchId,omitempty"`
	Action  string `json:"action"`
	Message string `json:"message"`
}

// SendMessageResult is the data of POST /matches/{id}/messages.
type SendMessageResult struct {
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
}

// Ack is the data of endpoints that only confirm.
type Ack struct {
	Message string `json:"message"`
}

// OnboardingStatus is the top-level body of GET /users/{wallet}/onboarding-status.
type OnboardingStatus struct {
	Success     bool         `json:"success"`
	IsOnboarded bool         `json:"isOnboarded"`
	Data        *UserProfile `json:"data"`
}

// CompleteOnboardingResult is the data of POST /users/{wallet}/onboard.
type CompleteOnboardingResult struct {
	UserID      string `json:"userId"`
	IsOnboarded bool   `json:"isOnboarded"`
	Message     string `json:"message"`
}
