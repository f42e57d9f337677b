// Package auth implements identity, session, and OAuth services.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionDuration is the fixed session token lifetime.
const SessionDuration = 7 * 24 * time.Hour

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session-token"

// Session is the verified content of a session token.
type Session struct {
	UserID uuid.UUID
	Email  string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager mints and verifies signed session tokens. Tokens are
// stateless; no server-side session store exists.
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Issue mints a signed token carrying the user ID and email, expiring after
// SessionDuration.
func (m *SessionManager) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token: signature, expiry, and claim shape.
func (m *SessionManager) Verify(tokenString string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in session token: %w", err)
	}

	return &Session{UserID: userID, Email: claims.Email}, nil
}
