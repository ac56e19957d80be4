// Package investors implements the investor domain for SolarDesk.
// Investors own project records; their codes participate in the
// duplicate scanner's exact-match rule.
package investors

import (
	"time"

	"github.com/google/uuid"
)

// Investor represents an investing entity that owns project records.
type Investor struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new investor.
type CreateCommand struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// UpdateCommand carries the mutable investor fields. Code is immutable once
// assigned; projects reference it in scan exact-match comparisons.
type UpdateCommand struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}
