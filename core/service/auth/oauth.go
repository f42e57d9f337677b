package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"smartinbox/pkg/logger"
)

// OAuthStateTTL bounds how long a pending authorization round trip stays valid.
const OAuthStateTTL = 10 * time.Minute

// OAuthStateStore stores single-use state nonces for CSRF protection.
// When nil, state validation is skipped.
type OAuthStateStore interface {
	StoreState(ctx context.Context, state string, ttl time.Duration) error
	ValidateState(ctx context.Context, state string) error
}

// OAuthService brokers the Google authorization-code exchange. It keeps no
// intermediate state beyond the optional nonce store; the flow is
// redirect-driven.
type OAuthService struct {
	config     *oauth2.Config
	stateStore OAuthStateStore
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func NewOAuthService(cfg OAuthConfig, stateStore OAuthStateStore) *OAuthService {
	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes: []string{
				"https://www.googleapis.com/auth/gmail.readonly",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		stateStore: stateStore,
	}
}

// AuthURL builds the consent URL requesting offline access with a forced
// consent prompt, so a refresh token is always returned.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	if s.stateStore != nil {
		if err := s.stateStore.StoreState(ctx, state, OAuthStateTTL); err != nil {
			return "", fmt.Errorf("failed to store oauth state: %w", err)
		}
	}

	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades the authorization code for a token pair after validating
// the state nonce (when a store is configured).
func (s *OAuthService) Exchange(ctx context.Context, code, state string) (*oauth2.Token, error) {
	if s.stateStore != nil {
		if err := s.stateStore.ValidateState(ctx, state); err != nil {
			return nil, fmt.Errorf("oauth state validation failed: %w", err)
		}
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

// FetchUserEmail retrieves the authenticated profile's email address.
func (s *OAuthService) FetchUserEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	client := s.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return "", fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if userInfo.Email == "" {
		logger.Warn("Userinfo response carried no email address")
	}
	return userInfo.Email, nil
}

func generateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
