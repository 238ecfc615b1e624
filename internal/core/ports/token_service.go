package ports

import (
	"time"

	"github.com/identitylab/auth-api/internal/core/domain"
)

// TokenService issues and validates signed bearer tokens. Both operations are
// pure: no storage access, safe for concurrent use.
type TokenService interface {
	// Issue signs a token asserting the user's identity and role set.
	// The user must carry a non-empty ID.
	Issue(user *domain.User, roles []string) (token string, expiresAt time.Time, err error)

	// Validate verifies signature and expiry and returns the embedded claims.
	// Fails with domain.ErrTokenExpired, domain.ErrTokenSignatureInvalid, or
	// domain.ErrTokenMalformed.
	Validate(token string) (*domain.TokenClaims, error)
}
