// Package out defines outbound ports implemented by adapters.
package out

import (
	"context"

	"smartinbox/core/domain"
)

// UserRepository stores profile rows for identity-provider users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// EmailAccountRepository stores connected mailbox rows.
type EmailAccountRepository interface {
	// Upsert creates or refreshes the account row keyed by its ID.
	Upsert(ctx context.Context, account *domain.EmailAccount) error
	GetByID(ctx context.Context, id string) (*domain.EmailAccount, error)
}

// EmailRepository stores synced emails and their classifications.
type EmailRepository interface {
	// UpsertBatch writes all rows, keyed by (account_id, remote_id).
	UpsertBatch(ctx context.Context, emails []*domain.Email) error
	// GetByID returns nil, nil when no email has the given id.
	GetByID(ctx context.Context, id int64) (*domain.Email, error)
	List(ctx context.Context, limit int) ([]*domain.Email, error)
	ListByUrgency(ctx context.Context, limit int) ([]*domain.Email, error)
	UpdateClassification(ctx context.Context, id int64, cls *domain.Classification) error
}
