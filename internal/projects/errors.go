package projects

import (
	"errors"
	"net/http"
)

// Domain errors for project operations.
var (
	ErrNotFound      = errors.New("project not found")
	ErrDuplicate     = errors.New("project code already exists")
	ErrInvalidID     = errors.New("invalid project id")
	ErrValidation    = errors.New("project name is required")
	ErrInvalidStatus = errors.New("unknown project status")
	ErrNotDeleted    = errors.New("project is not deleted")
)

// Statuses a project record moves through. Free-form history notes carry
// the detail; the status column itself stays within this set.
var ValidStatuses = []string{
	"intake",
	"survey",
	"contracted",
	"construction",
	"grid_connected",
	"completed",
}

// MapHTTPStatus maps project domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrNotDeleted) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
