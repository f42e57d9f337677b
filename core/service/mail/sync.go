// Package mail implements the ingestion pipeline and email queries.
package mail

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"smartinbox/core/domain"
	"smartinbox/core/port/out"
	"smartinbox/pkg/apperr"
	"smartinbox/pkg/logger"
)

const (
	// ListPageSize bounds the single listing page; no further pagination.
	ListPageSize = 20
	// FetchLimit bounds how many listed messages get a full-detail fetch.
	FetchLimit = 10

	maxConcurrentFetches = 5
)

// SyncService ingests recent messages for one connected account. The whole
// sync is all-or-nothing: one failing message fetch aborts the batch.
type SyncService struct {
	accounts out.EmailAccountRepository
	emails   out.EmailRepository
	provider out.MailProviderPort
}

func NewSyncService(accounts out.EmailAccountRepository, emails out.EmailRepository, provider out.MailProviderPort) *SyncService {
	return &SyncService{
		accounts: accounts,
		emails:   emails,
		provider: provider,
	}
}

// Sync upserts the account row, lists recent inbox messages, fetches their
// details, and upserts normalized rows. Returns the number of synced emails.
func (s *SyncService) Sync(ctx context.Context, accessToken, accountID string, userID *uuid.UUID, email string) (int, error) {
	start := time.Now()

	account := &domain.EmailAccount{
		ID:           accountID,
		UserID:       userID,
		EmailAddress: email,
		Provider:     domain.ProviderGmail,
		AccessToken:  accessToken,
		IsConnected:  true,
		LastSync:     time.Now(),
	}
	if err := s.accounts.Upsert(ctx, account); err != nil {
		return 0, apperr.Database(err, "Failed to create email account")
	}

	ids, err := s.provider.ListInboxIDs(ctx, accessToken, ListPageSize)
	if err != nil {
		return 0, apperr.External(err, "Failed to sync emails")
	}
	if len(ids) > FetchLimit {
		ids = ids[:FetchLimit]
	}

	messages, err := s.fetchMessages(ctx, accessToken, ids)
	if err != nil {
		return 0, apperr.External(err, "Failed to sync emails")
	}

	emails := make([]*domain.Email, len(messages))
	for i, msg := range messages {
		emails[i] = normalizeMessage(accountID, msg)
	}

	if err := s.emails.UpsertBatch(ctx, emails); err != nil {
		return 0, apperr.Database(err, "Failed to save emails")
	}

	logger.WithDuration(time.Since(start)).Info("Synced %d emails for account %s", len(emails), accountID)
	return len(emails), nil
}

// fetchMessages fetches message details concurrently. Rows are independent,
// so no ordering is needed; the first error aborts the result.
func (s *SyncService) fetchMessages(ctx context.Context, accessToken string, ids []string) ([]*out.MailMessage, error) {
	messages := make([]*out.MailMessage, len(ids))
	sem := make(chan struct{}, maxConcurrentFetches)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			msg, err := s.provider.GetMessage(ctx, accessToken, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			messages[i] = msg
		}(i, id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return messages, nil
}

func normalizeMessage(accountID string, msg *out.MailMessage) *domain.Email {
	return &domain.Email{
		AccountID:  accountID,
		RemoteID:   msg.RemoteID,
		Subject:    msg.Subject,
		Sender:     msg.Sender,
		SenderName: msg.SenderName,
		BodyText:   truncateRunes(msg.Body, domain.BodyMaxChars),
		ReceivedAt: msg.ReceivedAt,
		IsRead:     msg.IsRead,
		Labels:     msg.Labels,
	}
}

// truncateRunes bounds a string to max characters without splitting a
// multi-byte character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
