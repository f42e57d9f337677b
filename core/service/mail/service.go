package mail

import (
	"context"

	"smartinbox/core/domain"
	"smartinbox/core/llm"
	"smartinbox/core/port/out"
	"smartinbox/pkg/apperr"
)

const (
	DefaultListLimit    = 20
	DefaultUrgencyLimit = 50
)

// Service serves the queries behind the dashboard and triggers on-demand
// classification of stored emails.
type Service struct {
	emails out.EmailRepository
	engine *llm.Engine
}

func NewService(emails out.EmailRepository, engine *llm.Engine) *Service {
	return &Service{emails: emails, engine: engine}
}

// List returns emails newest-first.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Email, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	emails, err := s.emails.List(ctx, limit)
	if err != nil {
		return nil, apperr.Database(err, "Failed to fetch emails")
	}
	return emails, nil
}

// ListByUrgency returns emails ordered by urgency score, highest first.
func (s *Service) ListByUrgency(ctx context.Context, limit int) ([]*domain.Email, error) {
	if limit <= 0 {
		limit = DefaultUrgencyLimit
	}
	emails, err := s.emails.ListByUrgency(ctx, limit)
	if err != nil {
		return nil, apperr.Database(err, "Failed to fetch emails")
	}
	return emails, nil
}

// ClassifyStored analyzes one stored email and persists the result,
// overwriting any previous classification. Analysis failure yields the
// fallback record rather than an error (dashboard convention).
func (s *Service) ClassifyStored(ctx context.Context, id int64) (*domain.Classification, error) {
	email, err := s.emails.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Database(err, "Failed to fetch email")
	}
	if email == nil {
		return nil, apperr.NotFound("Email not found")
	}

	cls := s.engine.ClassifyOrFallback(ctx, email.Subject, email.BodyText, email.Sender)
	if err := s.emails.UpdateClassification(ctx, email.ID, cls); err != nil {
		return nil, apperr.Database(err, "Failed to save classification")
	}
	return cls, nil
}
