// Package token issues and validates the signed session tokens used by the
// dashboard API. A token embeds the holder's identity and admin flag together
// with an absolute expiry, so validation needs no server-side session store.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hpclab/labsite/pkg/apperror"
)

// Claims is the payload embedded in a session token.
type Claims struct {
	Username string    `json:"username"`
	UserID   uuid.UUID `json:"id"`
	Admin    bool      `json:"admin"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a process-wide secret that is
// read once at startup and never rotated at runtime.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed token for the given account. The expiry is absolute:
// issue time plus the configured session lifetime.
func (s *Service) Issue(userID uuid.UUID, username string, admin bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		Username: username,
		UserID:   userID,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate verifies the signature and expiry of a token. Any failure, whether
// a bad signature, a malformed token, or an expired one, is reported as
// unauthenticated; callers must not treat an expired token differently from a
// missing one.
//
// A valid token is accepted until its embedded expiry regardless of later
// account changes; that staleness window is a documented property of the
// design, not something to compensate for here.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", apperror.ErrUnauthorized)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)
	}

	return claims, nil
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
