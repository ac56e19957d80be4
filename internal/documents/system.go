package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/storage"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	// Download returns the blob stream for a document. The caller must
	// close the result body.
	Download(ctx context.Context, id uuid.UUID) (*Document, *storage.DownloadResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
