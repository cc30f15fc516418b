package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so a caller cannot tell which case occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)
