package investors

import (
	"net/url"

	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "investors", "i").
	Project("id", "ID").
	Project("code", "Code").
	Project("name", "Name").
	Project("contact_name", "ContactName").
	Project("phone", "Phone").
	Project("email", "Email").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "Code",
}

// Filters contains optional filtering criteria for investor queries.
// Nil fields are ignored. Code uses exact matching; Name uses
// case-insensitive contains matching.
type Filters struct {
	Code *string `json:"code,omitempty"`
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Code", f.Code).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("code"); c != "" {
		f.Code = &c
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

func scanInvestor(s repository.Scanner) (Investor, error) {
	var i Investor
	err := s.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.ContactName,
		&i.Phone,
		&i.Email,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
