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

// AccountAdapter implements out.EmailAccountRepository using PostgreSQL.
type AccountAdapter struct {
	db *sqlx.DB
}

func NewAccountAdapter(db *sqlx.DB) *AccountAdapter {
	return &AccountAdapter{db: db}
}

type accountRow struct {
	ID           string         `db:"id"`
	UserID       uuid.NullUUID  `db:"user_id"`
	EmailAddress string         `db:"email_address"`
	Provider     string         `db:"provider"`
	AccessToken  string         `db:"access_token"`
	RefreshToken sql.NullString `db:"refresh_token"`
	IsConnected  bool           `db:"is_connected"`
	LastSync     time.Time      `db:"last_sync"`
}

func (r *accountRow) toDomain() *domain.EmailAccount {
	account := &domain.EmailAccount{
		ID:           r.ID,
		EmailAddress: r.EmailAddress,
		Provider:     domain.Provider(r.Provider),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken.String,
		IsConnected:  r.IsConnected,
		LastSync:     r.LastSync,
	}
	if r.UserID.Valid {
		id := r.UserID.UUID
		account.UserID = &id
	}
	return account
}

// Upsert creates or refreshes the account row keyed by its ID. The access
// token and last-sync timestamp are overwritten on every sync; the refresh
// token is only replaced when the incoming row carries one, since sync
// requests hold the access token alone.
func (a *AccountAdapter) Upsert(ctx context.Context, account *domain.EmailAccount) error {
	const query = `
		INSERT INTO email_accounts (
			id, user_id, email_address, provider,
			access_token, refresh_token, is_connected, last_sync
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			email_address = EXCLUDED.email_address,
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(EXCLUDED.refresh_token, email_accounts.refresh_token),
			is_connected = EXCLUDED.is_connected,
			last_sync = EXCLUDED.last_sync`

	var userID uuid.NullUUID
	if account.UserID != nil {
		userID = uuid.NullUUID{UUID: *account.UserID, Valid: true}
	}

	_, err := a.db.ExecContext(ctx, query,
		account.ID, userID, account.EmailAddress, string(account.Provider),
		account.AccessToken, nullStr(account.RefreshToken), account.IsConnected, account.LastSync)
	if err != nil {
		return fmt.Errorf("failed to upsert email account: %w", err)
	}
	return nil
}

func (a *AccountAdapter) GetByID(ctx context.Context, id string) (*domain.EmailAccount, error) {
	const query = `
		SELECT id, user_id, email_address, provider,
		       access_token, refresh_token, is_connected, last_sync
		FROM email_accounts WHERE id = $1`

	var row accountRow
	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("email account %s not found", id)
		}
		return nil, fmt.Errorf("failed to get email account: %w", err)
	}
	return row.toDomain(), nil
}
