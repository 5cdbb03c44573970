package types

import "time"

// ------------------------------
// Enumerations
// ------------------------------

// PaymentType is how a posting compensates collaborators.
type PaymentType string

const (
	PaymentPaid   PaymentType = "paid"
	PaymentBarter PaymentType = "barter"
	PaymentBoth   PaymentType = "both"
)

// Valid reports whether p is a known payment type.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentPaid, PaymentBarter, PaymentBoth:
		return true
	}
	return false
}

// WorkStyle is contract or freestyle.
type WorkStyle string

const (
	WorkContract  WorkStyle = "contract"
	WorkFreestyle WorkStyle = "freestyle"
)

func (w WorkStyle) Valid() bool { return w == WorkContract || w == WorkFreestyle }

// PostingStatus is the lifecycle of a posting: open → shortlisted → signed/closed.
type PostingStatus string

const (
	PostingOpen        PostingStatus = "open"
	PostingShortlisted PostingStatus = "shortlisted"
	PostingSigned      PostingStatus = "signed"
	PostingClosed      PostingStatus = "closed"
)

func (s PostingStatus) Valid() bool {
	switch s {
	case PostingOpen, PostingShortlisted, PostingSigned, PostingClosed:
		return true
	}
	return false
}

// CreatorType classifies a collaborator slot.
type CreatorType string

const (
	CreatorIndie CreatorType = "indie"
	CreatorOrg   CreatorType = "org"
	CreatorBrand CreatorType = "brand"
)

// TimeCommitment of a collaborator slot.
type TimeCommitment string

const (
	CommitmentOngoing TimeCommitment = "ongoing"
	CommitmentOneTime TimeCommitment = "one-time"
)

// PingStatus is pending until the poster responds exactly once.
type PingStatus string

const (
	PingPending  PingStatus = "pending"
	PingAccepted PingStatus = "accepted"
	PingDeclined PingStatus = "declined"
)

func (s PingStatus) Valid() bool {
	switch s {
	case PingPending, PingAccepted, PingDeclined:
		return true
	}
	return false
}

// PingAction is the poster's response to a ping.
type PingAction string

const (
	ActionAccept  PingAction = "accept"
	ActionDecline PingAction = "decline"
)

func (a PingAction) Valid() bool { return a == ActionAccept || a == ActionDecline }

// MatchStatus of a match.
type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchActive, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

// MessageType tags a message body.
type MessageType string

const (
	MessageText      MessageType = "text"
	MessageImage     MessageType = "image"
	MessageFile      MessageType = "file"
	MessageMilestone MessageType = "milestone"
)

func (m MessageType) Valid() bool {
	switch m {
	case MessageText, MessageImage, MessageFile, MessageMilestone:
		return true
	}
	return false
}

// ------------------------------
// Core Domain Entities
// ------------------------------

// CollaboratorRole is one slot on a posting. Credits is a percentage.
type CollaboratorRole struct {
	Role             string         `json:"role"`
	CreatorType      CreatorType    `json:"creatorType"`
	Credits          int            `json:"credits"`
	CompensationType PaymentType    `json:"compensationType"`
	TimeCommitment   TimeCommitment `json:"timeCommitment"`
	JobDescription   string         `json:"jobDescription,omitempty"`
}

// Posting is an open collaboration opportunity.
type Posting struct {
	ID            string             `json:"id"`
	CoinAddress   string             `json:"coinAddress,omitempty"`
	CreatorWallet string             `json:"creatorWallet"`
	Role          string             `json:"role"`
	PaymentType   PaymentType        `json:"paymentType"`
	Credits       bool               `json:"credits"`
	WorkStyle     WorkStyle          `json:"workStyle"`
	Location      string             `json:"location"`
	Status        PostingStatus      `json:"status"`
	Collaborators []CollaboratorRole `json:"collaborators"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	ExpiresAt     *time.Time         `json:"expiresAt,omitempty"`
	CoinData      *CoinData          `json:"coinData,omitempty"`
}

// CoinData is the validated creator-coin payload attached to a posting.
type CoinData struct {
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	Description    string `json:"description"`
	TotalSupply    string `json:"totalSupply"`
	MarketCap      string `json:"marketCap"`
	Volume24h      string `json:"volume24h"`
	CreatorAddress string `json:"creatorAddress"`
	CreatedAt      string `json:"createdAt"`
	UniqueHolders  int    `json:"uniqueHolders"`
	PreviewImage   string `json:"previewImage,omitempty"`
}

// PingPostRef is the posting summary embedded in a received ping.
type PingPostRef struct {
	CoinAddress   string `json:"coinAddress,omitempty"`
	Role          string `json:"role,omitempty"`
	Title         string `json:"title,omitempty"`
	CreatorWallet string `json:"creatorWallet,omitempty"`
}

// Ping is an expression of interest in a posting.
type Ping struct {
	ID             string       `json:"id"`
	CollabPostID   string       `json:"collabPostId"`
	PingedWallet   string       `json:"pingedWallet"`
	InterestedRole string       `json:"interestedRole"`
	Bio            string       `json:"bio"`
	Status         PingStatus   `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	RespondedAt    *time.Time   `json:"respondedAt,omitempty"`
	CollabPost     *PingPostRef `json:"collabPost,omitempty"`
}

// MatchUser is the counterpart of a match as seen by the current wallet.
type MatchUser struct {
	Wallet string `json:"wallet"`
}

// Match is created server-side when a ping is accepted.
type Match struct {
	ID                 string      `json:"id"`
	CollabPostID       string      `json:"collabPostId"`
	CreatorWallet      string      `json:"creatorWallet"`
	CollaboratorWallet string      `json:"collaboratorWallet"`
	ProjectName        string      `json:"projectName"`
	Role               string      `json:"role"`
	Status             MatchStatus `json:"status"`
	CreatedAt          time.Time   `json:"createdAt"`
	LastMessageAt      time.Time   `json:"lastMessageAt"`
	UnreadCount        int         `json:"unreadCount"`
	OtherUser          *MatchUser  `json:"otherUser,omitempty"`
}

// Attachment is a file referenced by a message.
type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// Message is one entry of a match thread, ordered by CreatedAt.
type Message struct {
	ID           string       `json:"id"`
	MatchID      string       `json:"matchId"`
	SenderWallet string       `json:"senderWallet"`
	Content      string       `json:"content"`
	MessageType  MessageType  `json:"messageType"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	ReadAt       *time.Time   `json:"readAt,omitempty"`
}

// ------------------------------
// Onboarding
// ------------------------------

// ProfileData is the onboarding profile payload.
type ProfileData struct {
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	OrgName      *string  `json:"orgName,omitempty"`
	OrgType      *string  `json:"orgType,omitempty"`
	CollabCount  int      `json:"collabCount"`
	DeltaCollabs int      `json:"deltaCollabs"`
	Skills       []string `json:"skills"`
}

// UserProfile is returned once a wallet has onboarded.
type UserProfile struct {
	UserID            string      `json:"userId"`
	UserType          string      `json:"userType"`
	CreativeDomains   []string    `json:"creativeDomains"`
	Status            string      `json:"status"`
	ProfileData       ProfileData `json:"profileData"`
	WalletAddress     *string     `json:"walletAddress,omitempty"`
	ZoraWalletAddress string      `json:"zoraWalletAddress"`
	OnboardedAt       time.Time   `json:"onboardedAt"`
}
