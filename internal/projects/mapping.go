package projects

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("site_code", "SiteCode").
	Project("project_code", "ProjectCode").
	Project("investor_id", "InvestorID").
	Project("intake_year", "IntakeYear").
	Project("fiscal_year", "FiscalYear").
	Project("sequence_no", "Sequence").
	Project("name", "Name").
	Project("address", "Address").
	Project("city", "City").
	Project("district", "District").
	Project("capacity_kwp", "CapacityKWP").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("deleted_at", "DeletedAt").
	Project("delete_reason", "DeleteReason").
	Join("public", "investors", "i", "LEFT JOIN", "p.investor_id = i.id").
	ProjectExpr("COALESCE(i.code, '')", "InvestorCode").
	ProjectExpr("(SELECT COUNT(*) FROM public.documents d WHERE d.project_id = p.id)", "DocumentCount").
	ProjectExpr("(SELECT COUNT(*) FROM public.project_status_history h WHERE h.project_id = p.id)", "StatusHistoryCount")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for project queries.
// Nil fields are ignored. Deleted records are excluded unless
// IncludeDeleted is set.
type Filters struct {
	SiteCode       *string    `json:"site_code,omitempty"`
	InvestorID     *uuid.UUID `json:"investor_id,omitempty"`
	City           *string    `json:"city,omitempty"`
	District       *string    `json:"district,omitempty"`
	Status         *string    `json:"status,omitempty"`
	IntakeYear     *int       `json:"intake_year,omitempty"`
	IncludeDeleted bool       `json:"include_deleted,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("SiteCode", f.SiteCode).
		WhereEquals("InvestorID", f.InvestorID).
		WhereEquals("City", f.City).
		WhereEquals("District", f.District).
		WhereEquals("Status", f.Status).
		WhereEquals("IntakeYear", f.IntakeYear)

	if !f.IncludeDeleted {
		b.WhereNullable("DeletedAt", nil)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if sc := values.Get("site_code"); sc != "" {
		f.SiteCode = &sc
	}

	if inv := values.Get("investor_id"); inv != "" {
		if id, err := uuid.Parse(inv); err == nil {
			f.InvestorID = &id
		}
	}

	if c := values.Get("city"); c != "" {
		f.City = &c
	}

	if d := values.Get("district"); d != "" {
		f.District = &d
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if y := values.Get("intake_year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil {
			f.IntakeYear = &v
		}
	}

	if v := values.Get("include_deleted"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.IncludeDeleted = b
		}
	}

	return f
}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.SiteCode,
		&p.ProjectCode,
		&p.InvestorID,
		&p.IntakeYear,
		&p.FiscalYear,
		&p.Sequence,
		&p.Name,
		&p.Address,
		&p.City,
		&p.District,
		&p.CapacityKWP,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
		&p.DeleteReason,
		&p.InvestorCode,
		&p.DocumentCount,
		&p.StatusHistoryCount,
	)
	return p, err
}

func scanStatusEntry(s repository.Scanner) (StatusEntry, error) {
	var e StatusEntry
	err := s.Scan(
		&e.ID,
		&e.ProjectID,
		&e.Status,
		&e.Note,
		&e.ChangedBy,
		&e.ChangedAt,
	)
	return e, err
}
