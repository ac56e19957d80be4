package duplicates

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/solardesk/solardesk/internal/audit"
	"github.com/solardesk/solardesk/internal/auth"
	"github.com/solardesk/solardesk/internal/projects"
	"github.com/solardesk/solardesk/internal/settings"
	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	projects   projects.System
	settings   settings.System
	audit      audit.System
	authz      auth.Authorizer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a duplicate engine implementing the System interface.
func New(
	db *sql.DB,
	projectSys projects.System,
	settingSys settings.System,
	auditSys audit.System,
	authz auth.Authorizer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		projects:   projectSys,
		settings:   settingSys,
		audit:      auditSys,
		authz:      authz,
		logger:     logger.With("system", "duplicates"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

var dismissalProjection = query.
	NewProjectionMap("public", "duplicate_dismissals", "dd").
	Project("pair_key", "PairKey").
	Project("reason", "Reason").
	Project("dismissed_by", "DismissedBy").
	Project("dismissed_at", "DismissedAt")

var dismissalSort = query.SortField{
	Field:      "DismissedAt",
	Descending: true,
}

func (r *repo) Dismissals(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Dismissal], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(dismissalProjection, dismissalSort).
		WhereSearch(page.Search, "PairKey", "DismissedBy")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count dismissals: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDismissal)
	if err != nil {
		return nil, fmt.Errorf("query dismissals: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// dismissedKeys loads the full dismissal ledger as a lookup set for
// filtering scan results.
func (r *repo) dismissedKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT pair_key FROM duplicate_dismissals")
	if err != nil {
		return nil, fmt.Errorf("query dismissal ledger: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan dismissal key: %w", err)
		}
		keys[key] = struct{}{}
	}

	return keys, rows.Err()
}

func scanDismissal(s repository.Scanner) (Dismissal, error) {
	var d Dismissal
	err := s.Scan(
		&d.PairKey,
		&d.Reason,
		&d.DismissedBy,
		&d.DismissedAt,
	)
	return d, err
}
