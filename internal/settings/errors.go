package settings

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for settings operations.
var (
	ErrNotFound = errors.New("settings entry not found")
	// ErrForbidden indicates the caller lacks the editor role required
	// to change stored settings.
	ErrForbidden = errors.New("insufficient role to change settings")
)

// ValidationError reports a threshold outside the allowed range.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("setting %s must be between 0 and 100, got %g", e.Field, e.Value)
}

// MapHTTPStatus maps settings domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
