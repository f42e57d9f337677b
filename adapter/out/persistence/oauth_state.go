package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateKey is the Redis key prefix for OAuth state nonces.
const OAuthStateKey = "oauth:state:"

// RedisOAuthStateStore stores single-use OAuth state nonces with a TTL.
type RedisOAuthStateStore struct {
	client *redis.Client
}

func NewRedisOAuthStateStore(client *redis.Client) *RedisOAuthStateStore {
	return &RedisOAuthStateStore{client: client}
}

func (s *RedisOAuthStateStore) StoreState(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	if err := s.client.Set(ctx, OAuthStateKey+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store OAuth state: %w", err)
	}
	return nil
}

// ValidateState checks and consumes a state nonce. GETDEL keeps the check
// atomic so a nonce cannot be replayed.
func (s *RedisOAuthStateStore) ValidateState(ctx context.Context, state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	_, err := s.client.GetDel(ctx, OAuthStateKey+state).Result()
	if err == redis.Nil {
		return errors.New("state not found or expired")
	}
	if err != nil {
		return fmt.Errorf("failed to validate OAuth state: %w", err)
	}
	return nil
}
