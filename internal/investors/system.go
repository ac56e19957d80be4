package investors

import (
	"context"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/pkg/pagination"
)

// System defines the public contract for investor domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Investor], error)

	Find(ctx context.Context, id uuid.UUID) (*Investor, error)
	Create(ctx context.Context, cmd CreateCommand) (*Investor, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Investor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
