package investors

import (
	"errors"
	"net/http"
)

// Domain errors for investor operations.
var (
	ErrNotFound   = errors.New("investor not found")
	ErrDuplicate  = errors.New("investor code already exists")
	ErrInvalidID  = errors.New("invalid investor id")
	ErrValidation = errors.New("code and name are required")
	ErrHasProjects = errors.New("investor still owns active projects")
)

// MapHTTPStatus maps investor domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrHasProjects) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
