package audit

import (
	"net/url"

	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_log", "a").
	Project("id", "ID").
	Project("table_name", "TableName").
	Project("record_id", "RecordID").
	Project("action", "Action").
	Project("old_data", "OldData").
	Project("new_data", "NewData").
	Project("reason", "Reason").
	Project("actor", "Actor").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for audit log queries.
type Filters struct {
	TableName *string `json:"table_name,omitempty"`
	RecordID  *string `json:"record_id,omitempty"`
	Action    *string `json:"action,omitempty"`
	Actor     *string `json:"actor,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("TableName", f.TableName).
		WhereEquals("RecordID", f.RecordID).
		WhereEquals("Action", f.Action).
		WhereEquals("Actor", f.Actor)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("table_name"); t != "" {
		f.TableName = &t
	}

	if r := values.Get("record_id"); r != "" {
		f.RecordID = &r
	}

	if a := values.Get("action"); a != "" {
		f.Action = &a
	}

	if ac := values.Get("actor"); ac != "" {
		f.Actor = &ac
	}

	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.TableName,
		&e.RecordID,
		&e.Action,
		&e.OldData,
		&e.NewData,
		&e.Reason,
		&e.Actor,
		&e.CreatedAt,
	)
	return e, err
}
