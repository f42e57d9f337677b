// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"smartinbox/core/domain"
)

// EmailAdapter implements out.EmailRepository using PostgreSQL.
type EmailAdapter struct {
	db *sqlx.DB
}

func NewEmailAdapter(db *sqlx.DB) *EmailAdapter {
	return &EmailAdapter{db: db}
}

const emailSelectColumns = `
	e.id, e.account_id, e.remote_id, e.subject, e.sender, e.sender_name,
	e.body_text, e.received_at, e.is_read, e.labels,
	e.ai_category, e.ai_urgency_score, e.ai_summary, e.ai_sentiment, e.ai_suggested_reply,
	e.created_at, e.updated_at`

// emailRow represents the database row for emails.
type emailRow struct {
	ID         int64          `db:"id"`
	AccountID  string         `db:"account_id"`
	RemoteID   string         `db:"remote_id"`
	Subject    string         `db:"subject"`
	Sender     string         `db:"sender"`
	SenderName sql.NullString `db:"sender_name"`
	BodyText   string         `db:"body_text"`
	ReceivedAt time.Time      `db:"received_at"`
	IsRead     bool           `db:"is_read"`
	Labels     pq.StringArray `db:"labels"`

	// AI classification (embedded, overwritten on re-analysis)
	AICategory       sql.NullString `db:"ai_category"`
	AIUrgencyScore   sql.NullInt64  `db:"ai_urgency_score"`
	AISummary        sql.NullString `db:"ai_summary"`
	AISentiment      sql.NullString `db:"ai_sentiment"`
	AISuggestedReply sql.NullString `db:"ai_suggested_reply"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *emailRow) toDomain() *domain.Email {
	email := &domain.Email{
		ID:         r.ID,
		AccountID:  r.AccountID,
		RemoteID:   r.RemoteID,
		Subject:    r.Subject,
		Sender:     r.Sender,
		SenderName: r.SenderName.String,
		BodyText:   r.BodyText,
		ReceivedAt: r.ReceivedAt,
		IsRead:     r.IsRead,
		Labels:     r.Labels,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.AICategory.Valid {
		email.Classification = &domain.Classification{
			Category:       domain.Category(r.AICategory.String),
			UrgencyScore:   int(r.AIUrgencyScore.Int64),
			Summary:        r.AISummary.String,
			Sentiment:      domain.Sentiment(r.AISentiment.String),
			SuggestedReply: r.AISuggestedReply.String,
		}
	}
	return email
}

// UpsertBatch writes all rows keyed by (account_id, remote_id). A second sync
// of the same mailbox window overwrites rather than duplicates. Classification
// columns are left untouched on conflict.
func (a *EmailAdapter) UpsertBatch(ctx context.Context, emails []*domain.Email) error {
	if len(emails) == 0 {
		return nil
	}

	const query = `
		INSERT INTO emails (
			account_id, remote_id, subject, sender, sender_name,
			body_text, received_at, is_read, labels, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (account_id, remote_id) DO UPDATE SET
			subject = EXCLUDED.subject,
			sender = EXCLUDED.sender,
			sender_name = EXCLUDED.sender_name,
			body_text = EXCLUDED.body_text,
			received_at = EXCLUDED.received_at,
			is_read = EXCLUDED.is_read,
			labels = EXCLUDED.labels,
			updated_at = NOW()
		RETURNING id`

	for _, email := range emails {
		err := a.db.QueryRowxContext(ctx, query,
			email.AccountID, email.RemoteID, email.Subject, email.Sender, nullStr(email.SenderName),
			email.BodyText, email.ReceivedAt, email.IsRead, pq.Array(email.Labels),
		).Scan(&email.ID)
		if err != nil {
			return fmt.Errorf("failed to upsert email %s: %w", email.RemoteID, err)
		}
	}
	return nil
}

func (a *EmailAdapter) GetByID(ctx context.Context, id int64) (*domain.Email, error) {
	query := fmt.Sprintf(`SELECT %s FROM emails e WHERE e.id = $1`, emailSelectColumns)

	var row emailRow
	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}
	return row.toDomain(), nil
}

// List returns emails newest-first.
func (a *EmailAdapter) List(ctx context.Context, limit int) ([]*domain.Email, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM emails e
		ORDER BY e.received_at DESC
		LIMIT $1`, emailSelectColumns)

	return a.queryEmails(ctx, query, limit)
}

// ListByUrgency returns emails ordered by urgency score, highest first.
// Unclassified emails sort last.
func (a *EmailAdapter) ListByUrgency(ctx context.Context, limit int) ([]*domain.Email, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM emails e
		ORDER BY e.ai_urgency_score DESC NULLS LAST, e.received_at DESC
		LIMIT $1`, emailSelectColumns)

	return a.queryEmails(ctx, query, limit)
}

func (a *EmailAdapter) queryEmails(ctx context.Context, query string, args ...interface{}) ([]*domain.Email, error) {
	var rows []emailRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}

	emails := make([]*domain.Email, len(rows))
	for i := range rows {
		emails[i] = rows[i].toDomain()
	}
	return emails, nil
}

// UpdateClassification overwrites the embedded classification of one email.
func (a *EmailAdapter) UpdateClassification(ctx context.Context, id int64, cls *domain.Classification) error {
	const query = `
		UPDATE emails SET
			ai_category = $2,
			ai_urgency_score = $3,
			ai_summary = $4,
			ai_sentiment = $5,
			ai_suggested_reply = $6,
			updated_at = NOW()
		WHERE id = $1`

	result, err := a.db.ExecContext(ctx, query,
		id, string(cls.Category), cls.UrgencyScore, cls.Summary, string(cls.Sentiment), cls.SuggestedReply)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("email %d not found", id)
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
