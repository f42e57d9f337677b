package provider

import (
	"encoding/base64"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func TestParseSender(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantEmail string
		wantName  string
	}{
		{
			name:      "name and address",
			header:    `"Jean Dupont" <jean@example.com>`,
			wantEmail: "jean@example.com",
			wantName:  "Jean Dupont",
		},
		{
			name:      "bare address",
			header:    "jean@example.com",
			wantEmail: "jean@example.com",
			wantName:  "jean@example.com",
		},
		{
			name:      "unquoted name",
			header:    "Jean Dupont <jean@example.com>",
			wantEmail: "jean@example.com",
			wantName:  "Jean Dupont",
		},
		{
			name:      "malformed header falls back to prefix",
			header:    "Service Client <not an address",
			wantEmail: "Service Client <not an address",
			wantName:  "Service Client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, name := parseSender(tt.header)
			if email != tt.wantEmail {
				t.Errorf("email = %q, want %q", email, tt.wantEmail)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestDecodeBody(t *testing.T) {
	plain := "Bonjour, voici le corps du message."

	t.Run("padded base64url", func(t *testing.T) {
		data := base64.URLEncoding.EncodeToString([]byte(plain))
		if got := decodeBody(data); got != plain {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("unpadded base64url", func(t *testing.T) {
		data := base64.RawURLEncoding.EncodeToString([]byte(plain))
		if got := decodeBody(data); got != plain {
			t.Errorf("decoded = %q", got)
		}
	})

	t.Run("garbage yields empty", func(t *testing.T) {
		if got := decodeBody("!!not base64!!"); got != "" {
			t.Errorf("decoded = %q, want empty", got)
		}
	})
}

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractPlainText(t *testing.T) {
	t.Run("multipart picks text/plain over html", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>html</p>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("texte brut")}},
			},
		}
		if got := extractPlainText(payload); got != "texte brut" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("nested multipart", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("imbriqué")}},
					},
				},
			},
		}
		if got := extractPlainText(payload); got != "imbriqué" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("html-only multipart yields no body", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>html seul</p>")}},
			},
		}
		if got := extractPlainText(payload); got != "" {
			t.Errorf("body = %q, want empty for html-only message", got)
		}
	})

	t.Run("single part body on payload", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encode("simple")},
		}
		if got := extractPlainText(payload); got != "simple" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("nil payload", func(t *testing.T) {
		if got := extractPlainText(nil); got != "" {
			t.Errorf("body = %q, want empty", got)
		}
	})
}

func TestConvertMessage(t *testing.T) {
	msg := &gmail.Message{
		Id:       "m-1",
		LabelIds: []string{"INBOX", "UNREAD"},
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Votre facture"},
				{Name: "From", Value: "Compta <compta@example.com>"},
				{Name: "Date", Value: "Mon, 02 Jan 2006 15:04:05 -0700"},
			},
			Body: &gmail.MessagePartBody{Data: encode("corps")},
		},
	}

	result := convertMessage(msg)
	if result.RemoteID != "m-1" {
		t.Errorf("remote id = %q", result.RemoteID)
	}
	if result.Subject != "Votre facture" {
		t.Errorf("subject = %q", result.Subject)
	}
	if result.Sender != "compta@example.com" || result.SenderName != "Compta" {
		t.Errorf("sender = %q / %q", result.Sender, result.SenderName)
	}
	if result.IsRead {
		t.Error("message with UNREAD label should not be read")
	}
	if result.ReceivedAt.IsZero() {
		t.Error("date header not parsed")
	}
	if result.Body != "corps" {
		t.Errorf("body = %q", result.Body)
	}
}
