package investors

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

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

// New creates an investor repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "investors"),
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
) (*pagination.PageResult[Investor], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Code", "Name", "ContactName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count investors: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanInvestor)
	if err != nil {
		return nil, fmt.Errorf("query investors: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Investor, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInvestor)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Investor, error) {
	cmd.Code = strings.TrimSpace(cmd.Code)
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Code == "" || cmd.Name == "" {
		return nil, ErrValidation
	}

	q := `
		INSERT INTO investors(id, code, name, contact_name, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, code, name, contact_name, phone, email, created_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		cmd.Code,
		cmd.Name,
		cmd.ContactName,
		cmd.Phone,
		cmd.Email,
	}

	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Investor, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanInvestor)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("investor created", "id", i.ID, "code", i.Code)
	return &i, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Investor, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrValidation
	}

	q := `
		UPDATE investors
		SET name = $2, contact_name = $3, phone = $4, email = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, code, name, contact_name, phone, email, created_at, updated_at`

	updateArgs := []any{id, cmd.Name, cmd.ContactName, cmd.Phone, cmd.Email}

	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Investor, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanInvestor)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("investor updated", "id", i.ID)
	return &i, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var active int
		if err := tx.QueryRowContext(
			ctx,
			"SELECT COUNT(*) FROM projects WHERE investor_id = $1 AND deleted_at IS NULL",
			id,
		).Scan(&active); err != nil {
			return struct{}{}, err
		}

		if active > 0 {
			return struct{}{}, ErrHasProjects
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM investors WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("investor deleted", "id", id)
	return nil
}
