package security

import (
	"errors"
	"testing"

	"github.com/identitylab/auth-api/internal/core/domain"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	// Minimum cost keeps the test fast.
	h := NewBcryptHasher(4)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret-pass" || hash == "" {
		t.Fatalf("expected a derived hash, got %q", hash)
	}

	if err := h.Compare(hash, "s3cret-pass"); err != nil {
		t.Fatalf("Compare rejected the correct password: %v", err)
	}
	if err := h.Compare(hash, "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBcryptHasher_SaltedHashes(t *testing.T) {
	h := NewBcryptHasher(4)

	a, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	h := NewBcryptHasher(0)
	if h.cost != DefaultBcryptCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}

	h = NewBcryptHasher(99)
	if h.cost != DefaultBcryptCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}
}
