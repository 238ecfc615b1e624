package ports

import (
	"context"

	"github.com/identitylab/auth-api/internal/core/domain"
)

// UserRepository is the credential store: it owns user records, password
// hashes, and role membership. Implementations must guarantee that user
// creation is atomic with respect to username/email uniqueness and that
// EnsureRole is safe under concurrent first registrations.
type UserRepository interface {
	// CreateUser hashes the plaintext password and persists a new user.
	// Fails with domain.ErrUserExists on a duplicate username or email and
	// with domain.ErrWeakPassword when the password violates store policy.
	CreateUser(ctx context.Context, user *domain.User, password string) (*domain.User, error)

	// FindByEmail returns the user for the given email or domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// VerifyPassword checks the plaintext password against the stored hash
	// using a constant-time comparison. Returns domain.ErrInvalidCredentials
	// on mismatch.
	VerifyPassword(ctx context.Context, user *domain.User, password string) error

	// GetRoles returns the user's current role set.
	GetRoles(ctx context.Context, userID string) ([]string, error)

	// EnsureRole creates the named role if it does not exist. Creating an
	// already-existing role is a no-op, never an error.
	EnsureRole(ctx context.Context, name string) error

	// AssignRole adds the user to the named role. Idempotent.
	AssignRole(ctx context.Context, userID, role string) error
}

// PasswordHasher is the pluggable hashing capability owned by the credential
// store. Compare must be constant-time with respect to the password.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
