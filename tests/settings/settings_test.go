package settings_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/solardesk/solardesk/internal/settings"
)

func TestDefaultScanner(t *testing.T) {
	cfg := settings.DefaultScanner()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"min_address_similarity", cfg.MinAddressSimilarity, 40},
		{"min_name_similarity", cfg.MinNameSimilarity, 40},
		{"max_capacity_difference", cfg.MaxCapacityDifference, 30},
		{"min_address_token_overlap", cfg.MinAddressTokenOverlap, 20},
		{"medium_address_threshold", cfg.MediumAddressThreshold, 80},
		{"medium_name_threshold", cfg.MediumNameThreshold, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %g, want %g", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultScannerValidates(t *testing.T) {
	if err := settings.DefaultScanner().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestScannerValidate(t *testing.T) {
	valid := settings.DefaultScanner()

	tests := []struct {
		name      string
		mutate    func(*settings.Scanner)
		wantField string
	}{
		{
			name:      "negative threshold",
			mutate:    func(s *settings.Scanner) { s.MinAddressSimilarity = -1 },
			wantField: "min_address_similarity",
		},
		{
			name:      "above 100",
			mutate:    func(s *settings.Scanner) { s.MediumNameThreshold = 101 },
			wantField: "medium_name_threshold",
		},
		{
			name:      "capacity out of range",
			mutate:    func(s *settings.Scanner) { s.MaxCapacityDifference = 150 },
			wantField: "max_capacity_difference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var ve *settings.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %s, want %s", ve.Field, tt.wantField)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q should name the field %s", err.Error(), tt.wantField)
			}
		})
	}
}

func TestScannerValidateBoundaries(t *testing.T) {
	cfg := settings.Scanner{
		MinAddressSimilarity:   0,
		MinNameSimilarity:      100,
		MaxCapacityDifference:  0,
		MinAddressTokenOverlap: 100,
		MediumAddressThreshold: 0,
		MediumNameThreshold:    100,
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary values 0 and 100 should validate, got %v", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", settings.ErrNotFound, http.StatusNotFound},
		{"forbidden", settings.ErrForbidden, http.StatusForbidden},
		{"validation error", &settings.ValidationError{Field: "min_name_similarity", Value: 500}, http.StatusBadRequest},
		{"wrapped validation error", errors.Join(errors.New("save"), &settings.ValidationError{Field: "x"}), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := settings.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
