package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the panel session cookie.
const SessionCookie = "presence_session"

// Claims holds the JWT payload for panel session tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// SessionService issues and validates panel session tokens. A session is
// created by presenting the shared secret once at login; the cookie then
// authorizes the panel without re-sending the secret on every request.
type SessionService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewSessionService creates a SessionService with the given signing key and TTL.
func NewSessionService(signingKey []byte, ttl time.Duration) *SessionService {
	return &SessionService{signingKey: signingKey, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue generates a signed session token.
func (s *SessionService) Issue() (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "panel",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "presence",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a session token.
func (s *SessionService) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}
