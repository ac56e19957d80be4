package audit

import (
	"context"

	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/repository"
)

// System defines the public contract for the audit domain.
type System interface {
	Handler() *Handler

	// Write appends one audit entry using the given executor. Callers pass
	// their open transaction so the entry commits atomically with the
	// change it records.
	Write(ctx context.Context, exec repository.Executor, rec Record) error

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)
}
