package domain

// Category is the classification label assigned to an email. The prompt asks
// the model to pick from this set, but values outside it are stored as-is;
// only a missing category falls back to CategoryOther.
type Category string

const (
	CategoryUrgent     Category = "Urgent"
	CategoryQuote      Category = "Devis"
	CategoryInvoice    Category = "Facture"
	CategoryNewsletter Category = "Newsletter"
	CategoryPersonal   Category = "Personnel"
	CategoryOther      Category = "Autre"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "Positif"
	SentimentNegative Sentiment = "Négatif"
	SentimentNeutral  Sentiment = "Neutre"
)

// Classification is the structured analysis produced per email. It is embedded
// in the email row; a fresh classification overwrites the previous one.
type Classification struct {
	Category       Category  `json:"category"`
	UrgencyScore   int       `json:"urgency_score"`
	Summary        string    `json:"summary"`
	Sentiment      Sentiment `json:"sentiment"`
	SuggestedReply string    `json:"suggested_reply"`
}

// FallbackClassification is returned when analysis fails and the caller asked
// for the non-propagating convention.
func FallbackClassification() *Classification {
	return &Classification{
		Category:       CategoryOther,
		UrgencyScore:   50,
		Summary:        "Erreur lors de l'analyse",
		Sentiment:      SentimentNeutral,
		SuggestedReply: "",
	}
}
