package duplicates

import (
	"errors"
	"net/http"
)

// Domain errors for duplicate detection and resolution.
var (
	// ErrNotFound indicates a target record is missing or was already
	// resolved by a concurrent actor since the scan was produced.
	// Re-scan before retrying.
	ErrNotFound = errors.New("project not found or already resolved")
	// ErrInvalidPair indicates the two ids are missing, malformed, or
	// not distinct.
	ErrInvalidPair = errors.New("pair requires two distinct project ids")
	// ErrForbidden indicates the caller lacks the role the action requires.
	ErrForbidden = errors.New("insufficient role for this action")
)

// MapHTTPStatus maps duplicate domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidPair) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
