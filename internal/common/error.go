package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account errors.
	ErrDuplicateAccount   = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password is not strong enough")

	// Token errors. Both are reported to callers as the same "invalid token".
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	// Access errors.
	ErrForbidden = errors.New("forbidden")

	// File errors.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidFilename     = errors.New("invalid filename")
)
