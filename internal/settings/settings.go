// Package settings stores tunable application settings as named JSONB
// documents. The duplicate scanner thresholds live here so operators can
// adjust sensitivity without a redeploy.
package settings

// Scanner holds the duplicate scanner thresholds. All values are
// percentages in the range [0, 100].
type Scanner struct {
	MinAddressSimilarity   float64 `json:"min_address_similarity"`
	MinNameSimilarity      float64 `json:"min_name_similarity"`
	MaxCapacityDifference  float64 `json:"max_capacity_difference"`
	MinAddressTokenOverlap float64 `json:"min_address_token_overlap"`
	MediumAddressThreshold float64 `json:"medium_address_threshold"`
	MediumNameThreshold    float64 `json:"medium_name_threshold"`
}

// DefaultScanner returns the scanner thresholds used when no override
// has been stored.
func DefaultScanner() Scanner {
	return Scanner{
		MinAddressSimilarity:   40,
		MinNameSimilarity:      40,
		MaxCapacityDifference:  30,
		MinAddressTokenOverlap: 20,
		MediumAddressThreshold: 80,
		MediumNameThreshold:    80,
	}
}

// Validate checks that every threshold falls within [0, 100].
func (s Scanner) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"min_address_similarity", s.MinAddressSimilarity},
		{"min_name_similarity", s.MinNameSimilarity},
		{"max_capacity_difference", s.MaxCapacityDifference},
		{"min_address_token_overlap", s.MinAddressTokenOverlap},
		{"medium_address_threshold", s.MediumAddressThreshold},
		{"medium_name_threshold", s.MediumNameThreshold},
	}

	for _, f := range fields {
		if f.value < 0 || f.value > 100 {
			return &ValidationError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

