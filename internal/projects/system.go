package projects

import (
	"context"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/pkg/pagination"
)

// System defines the public contract for project domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Project], error)

	Find(ctx context.Context, id uuid.UUID) (*Project, error)
	Create(ctx context.Context, cmd CreateCommand) (*Project, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Project, error)

	// SoftDelete marks the project deleted without removing it, recording
	// the reason and an audit entry. Returns ErrNotFound if the project is
	// missing or already deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, reason string) error
	// Restore reactivates a soft-deleted project. Returns ErrNotFound if
	// the project is missing or not deleted.
	Restore(ctx context.Context, id uuid.UUID) error

	// ListActive returns every non-deleted project record. Used by the
	// duplicate scanner, which needs the full active set rather than a page.
	ListActive(ctx context.Context) ([]Project, error)

	// SetStatus updates the project status and appends a status history row.
	SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Project, error)
	// History returns the project's status history, most recent first.
	History(ctx context.Context, id uuid.UUID) ([]StatusEntry, error)
}
