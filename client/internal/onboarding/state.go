package onboarding

import "github.com/originals/collab-client/client/internal/types"

// State is the onboarding status of one wallet.
type State int

const (
	Unknown State = iota
	Checking
	Onboarded
	NotOnboarded
	Errored
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Checking:
		return "checking"
	case Onboarded:
		return "onboarded"
	case NotOnboarded:
		return "not_onboarded"
	case Errored:
		return "errored"
	default:
		return "invalid"
	}
}

// Settled reports whether the state answers the onboarding question.
func (s State) Settled() bool { return s == Onboarded || s == NotOnboarded }

// Snapshot is a read-only view of a wallet's record.
type Snapshot struct {
	Wallet  string
	State   State
	Profile *types.UserProfile
	Err     string
}
