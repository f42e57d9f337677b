package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier is the billing tier assigned to a user profile.
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPro  SubscriptionTier = "pro"
)

type User struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
}
