package out

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MailMessage is a normalized message fetched from the mail provider.
type MailMessage struct {
	RemoteID   string
	Subject    string
	Sender     string
	SenderName string
	Body       string
	ReceivedAt time.Time
	IsRead     bool
	Labels     []string
}

// MailProviderPort lists and fetches messages from the remote mailbox using a
// bearer access token.
type MailProviderPort interface {
	ListInboxIDs(ctx context.Context, accessToken string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, accessToken, remoteID string) (*MailMessage, error)
}

// IdentityUser is a user record held by the external identity provider.
type IdentityUser struct {
	ID    uuid.UUID
	Email string
}

// IdentityProviderPort wraps the managed auth service.
type IdentityProviderPort interface {
	CreateUser(ctx context.Context, email, password string) (*IdentityUser, error)
	// FindUserByEmail returns nil, nil when no user matches.
	FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error)
}
