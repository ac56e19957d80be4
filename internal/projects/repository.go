package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/audit"
	"github.com/solardesk/solardesk/internal/auth"
	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/query"
	"github.com/solardesk/solardesk/pkg/repository"
)

type repo struct {
	db         *sql.DB
	audit      audit.System
	authz      auth.Authorizer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(
	db *sql.DB,
	auditSys audit.System,
	authz auth.Authorizer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		audit:      auditSys,
		authz:      authz,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SiteCode", "ProjectCode", "Name", "Address")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

// ListActive returns every non-deleted project. The duplicate scanner
// consumes the full set; no pagination applies.
func (r *repo) ListActive(ctx context.Context) ([]Project, error) {
	qb := query.NewBuilder(projection, defaultSort).WhereNullable("DeletedAt", nil)
	q, args := qb.Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, fmt.Errorf("query active projects: %w", err)
	}
	return items, nil
}

const returningColumns = `id, site_code, project_code, investor_id, intake_year, fiscal_year,
		sequence_no, name, address, city, district, capacity_kwp, status,
		created_at, updated_at, deleted_at, delete_reason,
		'' AS investor_code, 0 AS document_count, 0 AS status_history_count`

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Project, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrValidation
	}

	id := uuid.New()

	q := `
		INSERT INTO projects(
			id, site_code, project_code, investor_id, intake_year, fiscal_year,
			sequence_no, name, address, city, district, capacity_kwp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + returningColumns

	insertArgs := []any{
		id,
		strings.TrimSpace(cmd.SiteCode),
		strings.TrimSpace(cmd.ProjectCode),
		cmd.InvestorID,
		cmd.IntakeYear,
		cmd.FiscalYear,
		cmd.Sequence,
		cmd.Name,
		cmd.Address,
		cmd.City,
		cmd.District,
		cmd.CapacityKWP,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		created, err := repository.QueryOne(ctx, tx, q, insertArgs, scanProject)
		if err != nil {
			return Project{}, err
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO project_status_history(id, project_id, status, note, changed_by)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), created.ID, created.Status, "record created", r.authz.Actor(ctx),
		)
		if err != nil {
			return Project{}, fmt.Errorf("append status history: %w", err)
		}

		return created, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project created", "id", p.ID, "site_code", p.SiteCode)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Project, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrValidation
	}

	prior, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE projects
		SET site_code = $2, project_code = $3, investor_id = $4, intake_year = $5,
			fiscal_year = $6, sequence_no = $7, name = $8, address = $9,
			city = $10, district = $11, capacity_kwp = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + returningColumns

	updateArgs := []any{
		id,
		strings.TrimSpace(cmd.SiteCode),
		strings.TrimSpace(cmd.ProjectCode),
		cmd.InvestorID,
		cmd.IntakeYear,
		cmd.FiscalYear,
		cmd.Sequence,
		cmd.Name,
		cmd.Address,
		cmd.City,
		cmd.District,
		cmd.CapacityKWP,
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		updated, err := repository.QueryOne(ctx, tx, q, updateArgs, scanProject)
		if err != nil {
			return Project{}, err
		}

		rec := audit.Record{
			TableName: "projects",
			RecordID:  id.String(),
			Action:    audit.ActionUpdate,
			OldData:   prior,
			NewData:   updated,
			Actor:     r.authz.Actor(ctx),
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return Project{}, err
		}

		return updated, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project updated", "id", p.ID)
	return &p, nil
}

func (r *repo) SoftDelete(ctx context.Context, id uuid.UUID, reason string) error {
	prior, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if !prior.Active() {
		return ErrNotFound
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE projects
			 SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
			 WHERE id = $1 AND deleted_at IS NULL`,
			id, reason,
		); err != nil {
			return struct{}{}, err
		}

		rec := audit.Record{
			TableName: "projects",
			RecordID:  id.String(),
			Action:    audit.ActionDelete,
			OldData:   prior,
			Reason:    reason,
			Actor:     r.authz.Actor(ctx),
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project soft-deleted", "id", id, "reason", reason)
	return nil
}

func (r *repo) Restore(ctx context.Context, id uuid.UUID) error {
	prior, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if prior.Active() {
		return ErrNotDeleted
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE projects
			 SET deleted_at = NULL, delete_reason = NULL, updated_at = NOW()
			 WHERE id = $1 AND deleted_at IS NOT NULL`,
			id,
		); err != nil {
			return struct{}{}, err
		}

		rec := audit.Record{
			TableName: "projects",
			RecordID:  id.String(),
			Action:    audit.ActionUpdate,
			OldData:   prior,
			Reason:    "restored from recycle bin",
			Actor:     r.authz.Actor(ctx),
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project restored", "id", id)
	return nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Project, error) {
	if !slices.Contains(ValidStatuses, cmd.Status) {
		return nil, ErrInvalidStatus
	}

	q := `
		UPDATE projects
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + returningColumns

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		updated, err := repository.QueryOne(ctx, tx, q, []any{id, cmd.Status}, scanProject)
		if err != nil {
			return Project{}, err
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO project_status_history(id, project_id, status, note, changed_by)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), id, cmd.Status, cmd.Note, r.authz.Actor(ctx),
		)
		if err != nil {
			return Project{}, fmt.Errorf("append status history: %w", err)
		}

		return updated, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project status changed", "id", id, "status", cmd.Status)
	return &p, nil
}

func (r *repo) History(ctx context.Context, id uuid.UUID) ([]StatusEntry, error) {
	entries, err := repository.QueryMany(
		ctx, r.db,
		`SELECT id, project_id, status, note, changed_by, changed_at
		 FROM project_status_history
		 WHERE project_id = $1
		 ORDER BY changed_at DESC`,
		[]any{id},
		scanStatusEntry,
	)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	return entries, nil
}
