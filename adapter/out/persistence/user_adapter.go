package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"smartinbox/core/domain"
)

// UserAdapter implements out.UserRepository using PostgreSQL. Rows are
// profile records mirroring identity-provider users.
type UserAdapter struct {
	db *sqlx.DB
}

func NewUserAdapter(db *sqlx.DB) *UserAdapter {
	return &UserAdapter{db: db}
}

type userRow struct {
	ID               uuid.UUID `db:"id"`
	Email            string    `db:"email"`
	SubscriptionTier string    `db:"subscription_tier"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Email:            r.Email,
		SubscriptionTier: domain.SubscriptionTier(r.SubscriptionTier),
		CreatedAt:        r.CreatedAt,
	}
}

func (a *UserAdapter) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (id, email, subscription_tier, created_at)
		VALUES ($1, $2, $3, NOW())`

	_, err := a.db.ExecContext(ctx, query, user.ID, user.Email, string(user.SubscriptionTier))
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, email, subscription_tier, created_at
		FROM users WHERE email = $1`

	var row userRow
	if err := a.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return row.toDomain(), nil
}
