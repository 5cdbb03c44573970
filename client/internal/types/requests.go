package types

import "time"

// ------------------------------
// Request Types
// ------------------------------

// CreatePostingRequest is the body of POST /collabs.
type CreatePostingRequest struct {
	Role          string             `json:"role"`
	PaymentType   PaymentType        `json:"paymentType"`
	Credits       bool               `json:"credits"`
	WorkStyle     WorkStyle          `json:"workStyle"`
	Location      string             `json:"location"`
	Collaborators []CollaboratorRole `json:"collaborators"`
	ExpiresAt     *time.Time         `json:"expiresAt,omitempty"`
}

// UpdatePostingStatusRequest is the body of PATCH /collabs/{id}.
type UpdatePostingStatusRequest struct {
	Status PostingStatus `json:"status"`
}

// PingRequest is the body of POST /collabs/{id}/ping.
type PingRequest struct {
	InterestedRole string `json:"interestedRole"`
	Bio            string `json:"bio"`
}

// RespondRequest is the body of POST /pings/{id}/respond.
type RespondRequest struct {
	Action PingAction `json:"action"`
}

// SendMessageRequest is the body of POST /matches/{id}/messages.
type SendMessageRequest struct {
	Content     string       `json:"content"`
	MessageType MessageType  `json:"messageType"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// OnboardingProfile is the profile part of an onboarding submission.
type OnboardingProfile struct {
	Name    string   `json:"name"`
	Tagline string   `json:"tagline"`
	OrgName string   `json:"orgName,omitempty"`
	OrgType string   `json:"orgType,omitempty"`
	Skills  []string `json:"skills"`
}

// OnboardingRequest is the body of POST /users/{wallet}/onboard.
type OnboardingRequest struct {
	UserType          string            `json:"userType"`
	CreativeDomains   []string          `json:"creativeDomains"`
	Status            string            `json:"status"`
	ProfileData       OnboardingProfile `json:"profileData"`
	WalletAddress     *string           `json:"walletAddress,omitempty"`
	ZoraWalletAddress string            `json:"zoraWalletAddress"`
}
