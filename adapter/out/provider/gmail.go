// Package provider implements mail provider adapters.
package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"smartinbox/core/port/out"
	"smartinbox/pkg/httputil"
	"smartinbox/pkg/logger"
)

// GmailAdapter implements out.MailProviderPort for Gmail. All API calls cross
// a circuit breaker so a failing upstream trips fast instead of piling up.
// The base HTTP client is shared across per-token gmail services so the
// connection pool survives between sync requests.
type GmailAdapter struct {
	cb   *gobreaker.CircuitBreaker
	base *http.Client
}

func NewGmailAdapter() *GmailAdapter {
	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &GmailAdapter{
		cb:   gobreaker.NewCircuitBreaker(cbSettings),
		base: httputil.NewPooledClient(httputil.GmailClientConfig()),
	}
}

func (a *GmailAdapter) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return svc, nil
}

// ListInboxIDs returns up to maxResults inbox message IDs. A single page is
// requested; no further pagination is attempted.
func (a *GmailAdapter) ListInboxIDs(ctx context.Context, accessToken string, maxResults int64) ([]string, error) {
	svc, err := a.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	result, err := a.cb.Execute(func() (interface{}, error) {
		return svc.Users.Messages.List("me").Q("is:inbox").MaxResults(maxResults).Context(ctx).Do()
	})
	if err != nil {
		return nil, a.wrapError(err, "failed to list messages")
	}

	resp := result.(*gmail.ListMessagesResponse)
	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// GetMessage fetches one message in full format and normalizes it.
func (a *GmailAdapter) GetMessage(ctx context.Context, accessToken, remoteID string) (*out.MailMessage, error) {
	svc, err := a.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	result, err := a.cb.Execute(func() (interface{}, error) {
		return svc.Users.Messages.Get("me", remoteID).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, a.wrapError(err, "failed to get message "+remoteID)
	}

	return convertMessage(result.(*gmail.Message)), nil
}

func convertMessage(msg *gmail.Message) *out.MailMessage {
	result := &out.MailMessage{
		RemoteID: msg.Id,
		Labels:   msg.LabelIds,
		IsRead:   !hasLabel(msg.LabelIds, "UNREAD"),
	}

	if msg.Payload == nil {
		return result
	}

	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "Subject":
			result.Subject = h.Value
		case "From":
			result.Sender, result.SenderName = parseSender(h.Value)
		case "Date":
			if t, err := mail.ParseDate(h.Value); err == nil {
				result.ReceivedAt = t
			}
		}
	}

	result.Body = extractPlainText(msg.Payload)
	return result
}

// parseSender splits a From header into address and display name. Falls back
// to everything before '<' as the display name when the header is malformed.
func parseSender(value string) (email, name string) {
	if addr, err := mail.ParseAddress(value); err == nil {
		name = addr.Name
		if name == "" {
			name = addr.Address
		}
		return addr.Address, name
	}
	name = strings.TrimSpace(strings.Split(value, "<")[0])
	return value, name
}

// extractPlainText walks the MIME tree for the first text/plain part. A
// single-part message carries the body on the payload itself; non-plain
// nested parts (text/html alternatives) are never decoded.
func extractPlainText(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if text := findTextPlain(payload); text != "" {
		return text
	}

	if len(payload.Parts) == 0 && payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

func findTextPlain(part *gmail.MessagePart) string {
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if text := findTextPlain(p); text != "" {
			return text
		}
	}
	return ""
}

func decodeBody(data string) string {
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	// Gmail omits padding on some parts
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func (a *GmailAdapter) wrapError(err error, msg string) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return fmt.Errorf("%s: gmail api error %d: %s", msg, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
