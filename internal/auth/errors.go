package auth

import "errors"

// Auth errors surfaced to HTTP handlers.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrNotReady     = errors.New("token verifier not ready")
	ErrForbidden    = errors.New("insufficient role for this operation")
)
