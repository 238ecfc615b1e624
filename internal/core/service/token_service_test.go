package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitylab/auth-api/internal/core/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 3*time.Hour)
	user := &domain.User{ID: "user-1", Username: "alice"}

	token, expiresAt, err := svc.Issue(user, []string{"User", "Admin"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if until := time.Until(expiresAt); until < 3*time.Hour-time.Minute || until > 3*time.Hour+time.Minute {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected username: %s", claims.Username)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "User" || claims.Roles[1] != "Admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected a token id claim")
	}
	if !claims.ExpiresAt.Equal(claims.IssuedAt.Add(3 * time.Hour)) {
		t.Fatalf("expiry is not issuance plus ttl: iat=%v exp=%v", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	user := &domain.User{ID: "user-1", Username: "alice"}

	first, _, err := svc.Issue(user, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	second, _, err := svc.Issue(user, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	a, err := svc.Validate(first)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	b, err := svc.Validate(second)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if a.TokenID == b.TokenID {
		t.Fatalf("expected distinct token ids, both were %s", a.TokenID)
	}
}

func TestTokenService_MissingSubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	if _, _, err := svc.Issue(&domain.User{Username: "alice"}, nil); err == nil {
		t.Fatalf("expected error for empty subject id")
	}
	if _, _, err := svc.Issue(nil, nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	user := &domain.User{ID: "user-1", Username: "alice"}

	token, _, err := svc.Issue(user, []string{"User"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	validator := NewTokenService("secret-b", time.Hour)
	user := &domain.User{ID: "user-1", Username: "alice"}

	token, _, err := issuer.Issue(user, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := validator.Validate(token); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	if _, err := svc.Validate("not-a-token"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_RejectsForeignAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}
