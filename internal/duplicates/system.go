package duplicates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/settings"
	"github.com/solardesk/solardesk/pkg/pagination"
)

// ScanResult is the outcome of one synchronous duplicate scan. Groups
// are ordered by confidence level descending.
type ScanResult struct {
	Groups       []Group          `json:"groups"`
	ProjectCount int              `json:"project_count"`
	Settings     settings.Scanner `json:"settings"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// DismissCommand marks a pair as a confirmed non-duplicate.
type DismissCommand struct {
	ProjectA uuid.UUID `json:"project_a"`
	ProjectB uuid.UUID `json:"project_b"`
	Reason   string    `json:"reason,omitempty"`
}

// DeleteCommand resolves a pair by soft-deleting one record.
type DeleteCommand struct {
	KeepID   uuid.UUID `json:"keep_id"`
	DeleteID uuid.UUID `json:"delete_id"`
	Reason   string    `json:"reason,omitempty"`
}

// MergeCommand resolves a pair by reassigning child rows to the kept
// record before soft-deleting the other.
type MergeCommand struct {
	KeepID             uuid.UUID `json:"keep_id"`
	MergeID            uuid.UUID `json:"merge_id"`
	MergeDocuments     bool      `json:"merge_documents"`
	MergeStatusHistory bool      `json:"merge_status_history"`
	Reason             string    `json:"reason,omitempty"`
}

// MergeResult reports how many child rows each reassignment moved.
type MergeResult struct {
	DocumentsMoved     int `json:"documents_moved"`
	StatusEntriesMoved int `json:"status_entries_moved"`
}

// Dismissal is one persisted entry in the dismissal ledger.
type Dismissal struct {
	PairKey     string    `json:"pair_key"`
	Reason      string    `json:"reason,omitempty"`
	DismissedBy string    `json:"dismissed_by"`
	DismissedAt time.Time `json:"dismissed_at"`
}

// System defines the public contract for duplicate detection and resolution.
type System interface {
	Handler() *Handler

	// Scan compares every active project pairwise and returns candidate
	// groups, excluding dismissed pairs. Read-only and idempotent.
	Scan(ctx context.Context) (*ScanResult, error)

	// Dismiss records a pair as a confirmed non-duplicate. Requires the
	// editor role. Dismissing an already-dismissed pair is a no-op.
	Dismiss(ctx context.Context, cmd DismissCommand) error

	// ConfirmDelete soft-deletes one record of a pair. Requires the
	// admin role. Returns ErrNotFound if either record was resolved by
	// a concurrent actor since the scan.
	ConfirmDelete(ctx context.Context, cmd DeleteCommand) error

	// Merge reassigns selected child rows from one record to the other,
	// then soft-deletes the source, atomically. Requires the admin role.
	Merge(ctx context.Context, cmd MergeCommand) (*MergeResult, error)

	// Dismissals lists the dismissal ledger, most recent first.
	Dismissals(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Dismissal], error)
}
