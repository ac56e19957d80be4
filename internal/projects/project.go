// Package projects implements the project record domain for SolarDesk.
// It provides types, data access, and business logic for solar-power
// project records: CRUD, soft delete and restore, and the status history
// trail. Active records feed the duplicate scanner.
package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a solar-power project record.
// SiteCode is the operator-facing display code (e.g. "2024YP0001");
// IntakeYear, FiscalYear, and Sequence are its structured components.
// InvestorCode is denormalized from the owning investor for display and
// scan comparisons. DocumentCount and StatusHistoryCount are projected
// subquery counts, not stored columns.
type Project struct {
	ID                 uuid.UUID  `json:"id"`
	SiteCode           string     `json:"site_code"`
	ProjectCode        string     `json:"project_code"`
	InvestorID         *uuid.UUID `json:"investor_id"`
	InvestorCode       string     `json:"investor_code"`
	IntakeYear         *int       `json:"intake_year"`
	FiscalYear         *int       `json:"fiscal_year"`
	Sequence           *int       `json:"sequence"`
	Name               string     `json:"name"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	District           string     `json:"district"`
	CapacityKWP        *float64   `json:"capacity_kwp"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	DeleteReason       *string    `json:"delete_reason,omitempty"`
	DocumentCount      int        `json:"document_count"`
	StatusHistoryCount int        `json:"status_history_count"`
}

// Active reports whether the record is eligible for scanning and resolution.
func (p *Project) Active() bool {
	return p.DeletedAt == nil
}

// StatusEntry is one row of a project's status history trail.
type StatusEntry struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// CreateCommand carries the data needed to register a new project record.
type CreateCommand struct {
	SiteCode    string     `json:"site_code"`
	ProjectCode string     `json:"project_code"`
	InvestorID  *uuid.UUID `json:"investor_id"`
	IntakeYear  *int       `json:"intake_year"`
	FiscalYear  *int       `json:"fiscal_year"`
	Sequence    *int       `json:"sequence"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	District    string     `json:"district"`
	CapacityKWP *float64   `json:"capacity_kwp"`
}

// UpdateCommand carries the mutable project fields.
type UpdateCommand struct {
	SiteCode    string     `json:"site_code"`
	ProjectCode string     `json:"project_code"`
	InvestorID  *uuid.UUID `json:"investor_id"`
	IntakeYear  *int       `json:"intake_year"`
	FiscalYear  *int       `json:"fiscal_year"`
	Sequence    *int       `json:"sequence"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	District    string     `json:"district"`
	CapacityKWP *float64   `json:"capacity_kwp"`
}

// StatusCommand carries a status transition with an optional note.
type StatusCommand struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// DeleteCommand carries the reason recorded alongside a soft delete.
type DeleteCommand struct {
	Reason string `json:"reason"`
}
