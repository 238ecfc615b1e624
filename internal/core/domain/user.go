package domain

import "time"

const (
	// RoleUser is granted to every account on registration.
	RoleUser = "User"
	// RoleAdmin gates administrative endpoints.
	RoleAdmin = "Admin"
)

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity extracted from a validated token.
// It is what protected handlers see; it never carries credentials.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
}

// HasRole reports whether the principal holds the named role.
func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// TokenClaims are the assertions embedded in an issued token.
type TokenClaims struct {
	UserID    string
	Username  string
	Roles     []string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
