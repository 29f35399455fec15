package services

import "errors"

// Sentinel errors for every recoverable, user-facing outcome. Handlers match
// these with errors.Is and map them to HTTP statuses; none of them may leave
// a partially-applied write behind.
var (
	ErrDuplicateTitle     = errors.New("title already exists")
	ErrDuplicateIdentity  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")
	ErrNotFound           = errors.New("not found")
	ErrUnknownSort        = errors.New("unknown sort")
	ErrValidation         = errors.New("validation failed")
)
