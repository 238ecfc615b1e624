package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("missing or malformed input")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password does not meet the minimum policy")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenMalformed        = errors.New("token is malformed")

	ErrForbidden = errors.New("access forbidden")
)
