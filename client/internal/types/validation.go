package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ------------------------------
// Shared Errors
// ------------------------------

// ErrNotFound is returned when the backend reports a missing resource.
var ErrNotFound = errors.New("resource not found")

// ErrNoIdentity is returned when an operation that needs a wallet runs before
// one is resolved.
var ErrNoIdentity = errors.New("no wallet identity resolved")

var walletRx = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateWallet checks the hex wallet address format.
func ValidateWallet(addr string) error {
	if !walletRx.MatchString(addr) {
		return fmt.Errorf("invalid wallet address %q", addr)
	}
	return nil
}

// ValidateID rejects blank path identifiers.
func ValidateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("%s id %q contains reserved characters", kind, id)
	}
	return nil
}

// CreditsTotal sums the credit percentages of all collaborator slots.
func CreditsTotal(roles []CollaboratorRole) int {
	total := 0
	for _, r := range roles {
		total += r.Credits
	}
	return total
}

// ValidateCreditSplit reports whether the credit percentages add up to 100.
// Producers may call it; the request validators do not enforce it.
func ValidateCreditSplit(roles []CollaboratorRole) error {
	if total := CreditsTotal(roles); total != 100 {
		return fmt.Errorf("collaborator credits sum to %d, want 100", total)
	}
	return nil
}

// ValidateCreatePosting checks a posting before it is sent.
func ValidateCreatePosting(req CreatePostingRequest) error {
	if strings.TrimSpace(req.Role) == "" {
		return errors.New("role is required")
	}
	if !req.PaymentType.Valid() {
		return fmt.Errorf("invalid payment type %q", req.PaymentType)
	}
	if !req.WorkStyle.Valid() {
		return fmt.Errorf("invalid work style %q", req.WorkStyle)
	}
	for i, c := range req.Collaborators {
		if strings.TrimSpace(c.Role) == "" {
			return fmt.Errorf("collaborator %d: role is required", i)
		}
		if c.Credits < 0 || c.Credits > 100 {
			return fmt.Errorf("collaborator %d: credits %d out of range", i, c.Credits)
		}
	}
	return nil
}

// ValidatePing checks a ping before it is sent.
func ValidatePing(req PingRequest) error {
	if strings.TrimSpace(req.InterestedRole) == "" {
		return errors.New("interested role is required")
	}
	return nil
}

// ValidateSendMessage checks a message before it is sent.
func ValidateSendMessage(req SendMessageRequest) error {
	if !req.MessageType.Valid() {
		return fmt.Errorf("invalid message type %q", req.MessageType)
	}
	if strings.TrimSpace(req.Content) == "" && len(req.Attachments) == 0 {
		return errors.New("message content or attachment is required")
	}
	return nil
}
