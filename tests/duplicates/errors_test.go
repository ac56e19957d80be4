package duplicates_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/solardesk/solardesk/internal/duplicates"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", duplicates.ErrNotFound, http.StatusNotFound},
		{"invalid pair", duplicates.ErrInvalidPair, http.StatusBadRequest},
		{"forbidden", duplicates.ErrForbidden, http.StatusForbidden},
		{"wrapped not found", fmt.Errorf("resolve: %w", duplicates.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicates.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
