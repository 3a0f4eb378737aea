// Package common defines shared sentinel errors used across authkeeper
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorInvalidCredentials covers both "no such user" and "wrong password".
	// The two cases must stay indistinguishable to the caller.
	ErrorInvalidCredentials = errors.New("email or password does not match")

	// Auth errors (invalid, malformed, or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked marks a refresh token whose backing record is gone.
	ErrTokenRevoked = errors.New("token revoked")
)
