package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

// tokenClaims is the wire shape of an issued token. Roles is a multi-valued
// claim; jti carries a fresh UUID per token.
type tokenClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256-signed JWTs.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

var _ ports.TokenService = (*TokenService)(nil)

// NewTokenService builds a TokenService signing with secret. If tokenTTL <= 0
// a 3 hour lifetime is used.
func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = 3 * time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Issue signs a token asserting the user's identity and role set.
func (s *TokenService) Issue(user *domain.User, roles []string) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, fmt.Errorf("issue token: missing subject")
	}
	if roles == nil {
		roles = []string{}
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.tokenTTL)

	claims := tokenClaims{
		Username: user.Username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature and expiry and returns the embedded claims.
func (s *TokenService) Validate(token string) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenSignatureInvalid
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenSignatureInvalid
	}

	out := &domain.TokenClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    claims.Roles,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
