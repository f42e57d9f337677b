package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"smartinbox/core/domain"
	"smartinbox/pkg/logger"
)

// Completer is the model surface the engine needs. Satisfied by *Client.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Engine classifies emails with a fixed prompt template. Email content is
// embedded verbatim, with no prompt-injection escaping (known weakness).
type Engine struct {
	llm Completer
}

func NewEngine(llm Completer) *Engine {
	return &Engine{llm: llm}
}

const classifySystemPrompt = "Tu es une API JSON stricte. Retourne UNIQUEMENT du JSON valide."

const classifyPromptTemplate = `
Tu es un assistant exécutif expert en gestion des emails. Analyse cet email entrant avec précision.

Expéditeur: %s
Sujet: %s
Contenu: %s

Effectue les tâches suivantes:
1. Catégorise l'email (Urgent, Devis, Facture, Newsletter, Personnel, Autre)
2. Donne un score d'urgence de 0 à 100
3. Résume l'email en une phrase courte
4. Analyse le sentiment (Positif, Négatif, Neutre)
5. Suggère une réponse courte si pertinent

Réponds UNIQUEMENT en JSON valide avec les clés: category, urgency_score, summary, sentiment, suggested_reply
`

// modelResponse mirrors the keys the prompt requires. UrgencyScore stays
// untyped: the model sometimes returns it as a string.
type modelResponse struct {
	Category       string `json:"category"`
	UrgencyScore   any    `json:"urgency_score"`
	Summary        string `json:"summary"`
	Sentiment      string `json:"sentiment"`
	SuggestedReply string `json:"suggested_reply"`
}

// Classify analyzes one email and propagates any failure to the caller. This
// is the convention used by the standalone analyze route, which surfaces
// failures as HTTP 500.
func (e *Engine) Classify(ctx context.Context, subject, body, sender string) (*domain.Classification, error) {
	prompt := fmt.Sprintf(classifyPromptTemplate, sender, subject, body)

	resp, err := e.llm.CompleteJSON(ctx, classifySystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	return parseClassification(resp)
}

// ClassifyOrFallback never fails: any error yields the fallback record. This
// is the convention used by the sync/dashboard path.
func (e *Engine) ClassifyOrFallback(ctx context.Context, subject, body, sender string) *domain.Classification {
	cls, err := e.Classify(ctx, subject, body, sender)
	if err != nil {
		logger.WithError(err).Error("Email analysis failed, using fallback")
		return domain.FallbackClassification()
	}
	return cls
}

// GenerateSmartReply drafts a short reply for an already-categorized email.
// Returns an empty string on failure.
func (e *Engine) GenerateSmartReply(ctx context.Context, content, category string) string {
	prompt := fmt.Sprintf(`Tu es un assistant professionnel qui rédige des réponses d'email courtes et appropriées.
Catégorie: %s
Email reçu: %s

Rédige une réponse professionnelle brève (2-3 phrases max).`, category, content)

	reply, err := e.llm.Complete(ctx, prompt, 0.7, 200)
	if err != nil {
		logger.WithError(err).Error("Smart reply generation failed")
		return ""
	}
	return reply
}

func parseClassification(resp string) (*domain.Classification, error) {
	resp = strings.TrimPrefix(strings.TrimSpace(resp), "```json")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	if resp == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var result modelResponse
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	return normalizeClassification(&result), nil
}

// normalizeClassification enforces the output invariants regardless of what
// the model returned.
func normalizeClassification(r *modelResponse) *domain.Classification {
	cls := &domain.Classification{
		Category:       domain.Category(r.Category),
		UrgencyScore:   normalizeScore(r.UrgencyScore),
		Summary:        r.Summary,
		Sentiment:      domain.Sentiment(r.Sentiment),
		SuggestedReply: r.SuggestedReply,
	}
	if cls.Category == "" {
		cls.Category = domain.CategoryOther
	}
	if cls.Summary == "" {
		cls.Summary = "Email non analysé"
	}
	if cls.Sentiment == "" {
		cls.Sentiment = domain.SentimentNeutral
	}
	return cls
}

// normalizeScore clamps the urgency score into [0, 100]. Missing or
// non-numeric input defaults to 50.
func normalizeScore(v any) int {
	var score float64
	switch n := v.(type) {
	case float64:
		score = n
	case int:
		score = float64(n)
	case int64:
		score = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 50
		}
		score = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 50
		}
		score = f
	default:
		return 50
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}
