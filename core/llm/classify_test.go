package llm

import (
	"context"
	"errors"
	"testing"

	"smartinbox/core/domain"
)

type fakeCompleter struct {
	jsonResponse string
	textResponse string
	err          error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	return f.textResponse, f.err
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.jsonResponse, f.err
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected int
	}{
		{"float in range", float64(75), 75},
		{"zero stays zero", float64(0), 0},
		{"above range clamps", float64(150), 100},
		{"below range clamps", float64(-10), 0},
		{"numeric string", "42", 42},
		{"padded numeric string", " 42 ", 42},
		{"non-numeric string", "très urgent", 50},
		{"missing value", nil, 50},
		{"bool value", true, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeScore(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeScore(%v) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name     string
		resp     string
		wantErr  bool
		category domain.Category
		score    int
	}{
		{
			name:     "plain json",
			resp:     `{"category":"Urgent","urgency_score":90,"summary":"Incident critique","sentiment":"Négatif"}`,
			category: domain.CategoryUrgent,
			score:    90,
		},
		{
			name:     "markdown fenced json",
			resp:     "```json\n{\"category\":\"Facture\",\"urgency_score\":30,\"summary\":\"Facture reçue\"}\n```",
			category: domain.CategoryInvoice,
			score:    30,
		},
		{
			name:     "score as string",
			resp:     `{"category":"Devis","urgency_score":"60","summary":"Demande de devis"}`,
			category: domain.CategoryQuote,
			score:    60,
		},
		{
			name:    "empty response",
			resp:    "",
			wantErr: true,
		},
		{
			name:    "invalid json",
			resp:    "not json at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := parseClassification(tt.resp)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cls.Category != tt.category {
				t.Errorf("category = %q, want %q", cls.Category, tt.category)
			}
			if cls.UrgencyScore != tt.score {
				t.Errorf("urgency = %d, want %d", cls.UrgencyScore, tt.score)
			}
		})
	}
}

func TestNormalizeClassificationDefaults(t *testing.T) {
	cls := normalizeClassification(&modelResponse{})

	if cls.Category != domain.CategoryOther {
		t.Errorf("category = %q, want %q", cls.Category, domain.CategoryOther)
	}
	if cls.UrgencyScore != 50 {
		t.Errorf("urgency = %d, want 50", cls.UrgencyScore)
	}
	if cls.Summary != "Email non analysé" {
		t.Errorf("summary = %q, want default", cls.Summary)
	}
	if cls.Sentiment != domain.SentimentNeutral {
		t.Errorf("sentiment = %q, want %q", cls.Sentiment, domain.SentimentNeutral)
	}
	if cls.SuggestedReply != "" {
		t.Errorf("suggested reply = %q, want empty", cls.SuggestedReply)
	}
}

func TestNormalizeClassificationKeepsUnknownCategory(t *testing.T) {
	cls := normalizeClassification(&modelResponse{Category: "Spam"})
	if cls.Category != "Spam" {
		t.Errorf("category = %q, want Spam preserved", cls.Category)
	}
}

func TestClassifyPropagatesError(t *testing.T) {
	engine := NewEngine(&fakeCompleter{err: errors.New("rate limited")})

	_, err := engine.Classify(context.Background(), "Sujet", "Contenu", "a@b.fr")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestClassifyOrFallback(t *testing.T) {
	t.Run("model failure yields fallback record", func(t *testing.T) {
		engine := NewEngine(&fakeCompleter{err: errors.New("boom")})

		cls := engine.ClassifyOrFallback(context.Background(), "Sujet", "Contenu", "a@b.fr")
		want := domain.FallbackClassification()
		if *cls != *want {
			t.Errorf("fallback = %+v, want %+v", cls, want)
		}
	})

	t.Run("valid response passes through", func(t *testing.T) {
		engine := NewEngine(&fakeCompleter{
			jsonResponse: `{"category":"Personnel","urgency_score":10,"summary":"Message d'un ami","sentiment":"Positif"}`,
		})

		cls := engine.ClassifyOrFallback(context.Background(), "Salut", "On se voit demain ?", "ami@mail.fr")
		if cls.Category != domain.CategoryPersonal {
			t.Errorf("category = %q, want %q", cls.Category, domain.CategoryPersonal)
		}
		if cls.UrgencyScore != 10 {
			t.Errorf("urgency = %d, want 10", cls.UrgencyScore)
		}
	})
}

func TestGenerateSmartReplyEmptyOnError(t *testing.T) {
	engine := NewEngine(&fakeCompleter{err: errors.New("boom")})
	if reply := engine.GenerateSmartReply(context.Background(), "contenu", "Urgent"); reply != "" {
		t.Errorf("reply = %q, want empty on error", reply)
	}
}
