package ports

import (
	"context"
	"time"
)

// RegisterInput is the DTO passed from the transport layer for registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	RemoteIP  string
}

// LoginInput is the DTO passed from the transport layer for login.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// LoginResult carries the issued token on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates registration and login against the credential
// store and the token service.
type AuthService interface {
	// Register creates the account and assigns the default role. It never
	// issues a token.
	Register(ctx context.Context, in RegisterInput) error

	// Login verifies credentials and issues a signed token. All credential
	// failures surface as domain.ErrInvalidCredentials; callers must not be
	// able to distinguish unknown email from wrong password.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}
