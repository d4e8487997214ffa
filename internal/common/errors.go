// Package common defines shared constants and sentinel errors used across
// the journal server, the terminal client and the storage layer. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrPersistence    = errors.New("storage unavailable")
	ErrBusy           = errors.New("another operation is in progress")

	// Validation errors: an empty required field, handled before any call.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSessionExpired     = errors.New("session expired")

	// Reflection service errors.
	ErrConfiguration      = errors.New("service is not configured")
	ErrServiceUnavailable = errors.New("service unavailable")
)
