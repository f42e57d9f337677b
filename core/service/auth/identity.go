package auth

import (
	"context"
	"fmt"

	"smartinbox/core/domain"
	"smartinbox/core/port/out"
	"smartinbox/pkg/apperr"
	"smartinbox/pkg/logger"
)

// IdentityService delegates credential storage to the managed identity
// provider and mirrors users into local profile rows.
type IdentityService struct {
	provider out.IdentityProviderPort
	users    out.UserRepository
	sessions *SessionManager
}

func NewIdentityService(provider out.IdentityProviderPort, users out.UserRepository, sessions *SessionManager) *IdentityService {
	return &IdentityService{
		provider: provider,
		users:    users,
		sessions: sessions,
	}
}

// SignUp creates the identity, then a profile row with the default tier.
// Profile creation failure is logged but does not roll back the identity.
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	identity, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return nil, apperr.External(err, "Signup failed")
	}

	user := &domain.User{
		ID:               identity.ID,
		Email:            identity.Email,
		SubscriptionTier: domain.TierFree,
	}
	if err := s.users.Create(ctx, user); err != nil {
		logger.WithError(err).Error("Profile creation failed for user %s", identity.ID)
	}

	return user, nil
}

// Login locates a user by email and issues a session token. The password is
// NOT verified against the provider; any password succeeds for a known email.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	identity, err := s.provider.FindUserByEmail(ctx, email)
	if err != nil {
		return "", nil, apperr.External(err, "Login failed")
	}
	if identity == nil {
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.sessions.Issue(identity.ID, identity.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session: %w", err)
	}

	user := &domain.User{ID: identity.ID, Email: identity.Email}
	if profile, err := s.users.GetByEmail(ctx, identity.Email); err == nil && profile != nil {
		user = profile
	}

	return token, user, nil
}
