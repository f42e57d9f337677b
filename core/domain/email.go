package domain

import (
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderGmail Provider = "gmail"
)

// BodyMaxChars is the stored body length bound. Truncation is rune-safe.
const BodyMaxChars = 1000

// EmailAccount is a connected mailbox. UserID is nullable in single-tenant
// mode, where the account is keyed only by the client-supplied account ID.
type EmailAccount struct {
	ID           string     `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	EmailAddress string     `json:"email_address"`
	Provider     Provider   `json:"provider"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	IsConnected  bool       `json:"is_connected"`
	LastSync     time.Time  `json:"last_sync"`
}

// Email is one synced message. (AccountID, RemoteID) is unique; re-syncing the
// same mailbox window upserts rather than duplicates.
type Email struct {
	ID         int64     `json:"id"`
	AccountID  string    `json:"account_id"`
	RemoteID   string    `json:"remote_id"`
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name"`
	BodyText   string    `json:"body_text"`
	ReceivedAt time.Time `json:"received_at"`
	IsRead     bool      `json:"is_read"`
	Labels     []string  `json:"labels,omitempty"`

	Classification *Classification `json:"classification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
