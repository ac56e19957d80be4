package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Write(ctx context.Context, exec repository.Executor, rec Record) error {
	if rec.Action != ActionUpdate && rec.Action != ActionDelete {
		return ErrInvalidAction
	}

	oldData, err := marshalSnapshot(rec.OldData)
	if err != nil {
		return fmt.Errorf("marshal old data: %w", err)
	}

	newData, err := marshalSnapshot(rec.NewData)
	if err != nil {
		return fmt.Errorf("marshal new data: %w", err)
	}

	_, err = exec.ExecContext(
		ctx,
		`INSERT INTO audit_log(id, table_name, record_id, action, old_data, new_data, reason, actor)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(),
		rec.TableName,
		rec.RecordID,
		rec.Action,
		oldData,
		newData,
		rec.Reason,
		rec.Actor,
	)
	if err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}

	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "TableName", "RecordID", "Reason", "Actor")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// marshalSnapshot serializes a snapshot value to JSON, passing nil through
// so absent snapshots are stored as NULL.
func marshalSnapshot(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return []byte(raw), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}
