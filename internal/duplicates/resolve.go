package duplicates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/audit"
	"github.com/solardesk/solardesk/pkg/repository"
)

// Dismiss records a pair as a confirmed non-duplicate in the dismissal
// ledger. Idempotent: dismissing an already-dismissed pair changes
// nothing and succeeds. The ledger insert and its audit entry share one
// transaction.
func (r *repo) Dismiss(ctx context.Context, cmd DismissCommand) error {
	if !r.authz.CanEdit(ctx) {
		return ErrForbidden
	}
	if cmd.ProjectA == uuid.Nil || cmd.ProjectB == uuid.Nil || cmd.ProjectA == cmd.ProjectB {
		return ErrInvalidPair
	}

	key := PairKey(cmd.ProjectA, cmd.ProjectB)
	actor := r.authz.Actor(ctx)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO duplicate_dismissals(pair_key, reason, dismissed_by)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (pair_key) DO NOTHING`,
			key, cmd.Reason, actor,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert dismissal: %w", err)
		}

		inserted, err := result.RowsAffected()
		if err != nil {
			return struct{}{}, err
		}
		if inserted == 0 {
			return struct{}{}, nil
		}

		rec := audit.Record{
			TableName: "duplicate_dismissals",
			RecordID:  key,
			Action:    audit.ActionUpdate,
			NewData: Dismissal{
				PairKey:     key,
				Reason:      cmd.Reason,
				DismissedBy: actor,
			},
			Reason: cmd.Reason,
			Actor:  actor,
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.Info("pair dismissed", "pair", key, "actor", actor)
	return nil
}

// ConfirmDelete soft-deletes one record of a confirmed duplicate pair.
// Both records are locked and re-checked inside the transaction; if
// either was resolved by a concurrent actor since the scan, the call
// fails with ErrNotFound and nothing is written.
func (r *repo) ConfirmDelete(ctx context.Context, cmd DeleteCommand) error {
	if !r.authz.CanAdmin(ctx) {
		return ErrForbidden
	}
	if cmd.KeepID == uuid.Nil || cmd.DeleteID == uuid.Nil || cmd.KeepID == cmd.DeleteID {
		return ErrInvalidPair
	}

	actor := r.authz.Actor(ctx)

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := lockActivePair(ctx, tx, cmd.KeepID, cmd.DeleteID); err != nil {
			return struct{}{}, err
		}

		old, err := snapshotProject(ctx, tx, cmd.DeleteID)
		if err != nil {
			return struct{}{}, err
		}

		if err := softDeleteProject(ctx, tx, cmd.DeleteID, cmd.Reason); err != nil {
			return struct{}{}, err
		}

		updated, err := snapshotProject(ctx, tx, cmd.DeleteID)
		if err != nil {
			return struct{}{}, err
		}

		rec := audit.Record{
			TableName: "projects",
			RecordID:  cmd.DeleteID.String(),
			Action:    audit.ActionDelete,
			OldData:   old,
			NewData:   updated,
			Reason:    cmd.Reason,
			Actor:     actor,
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.Info("duplicate resolved by delete",
		"kept", cmd.KeepID,
		"deleted", cmd.DeleteID,
		"actor", actor,
	)
	return nil
}

// Merge reassigns selected child rows from the merged record to the
// kept record, then soft-deletes the merged record. All steps share one
// transaction: either every reassignment and the delete land, or none do.
func (r *repo) Merge(ctx context.Context, cmd MergeCommand) (*MergeResult, error) {
	if !r.authz.CanAdmin(ctx) {
		return nil, ErrForbidden
	}
	if cmd.KeepID == uuid.Nil || cmd.MergeID == uuid.Nil || cmd.KeepID == cmd.MergeID {
		return nil, ErrInvalidPair
	}

	actor := r.authz.Actor(ctx)
	reason := cmd.Reason
	if reason == "" {
		reason = fmt.Sprintf("merged into %s", cmd.KeepID)
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (MergeResult, error) {
		var res MergeResult

		if err := lockActivePair(ctx, tx, cmd.KeepID, cmd.MergeID); err != nil {
			return res, err
		}

		old, err := snapshotProject(ctx, tx, cmd.MergeID)
		if err != nil {
			return res, err
		}

		if cmd.MergeDocuments {
			moved, err := reassignRows(
				ctx, tx,
				`UPDATE documents SET project_id = $1, updated_at = NOW() WHERE project_id = $2`,
				cmd.KeepID, cmd.MergeID,
			)
			if err != nil {
				return res, fmt.Errorf("reassign documents: %w", err)
			}
			res.DocumentsMoved = moved

			if err := r.writeBatchAudit(ctx, tx, "documents", cmd, moved, reason, actor); err != nil {
				return res, err
			}
		}

		if cmd.MergeStatusHistory {
			moved, err := reassignRows(
				ctx, tx,
				`UPDATE project_status_history SET project_id = $1 WHERE project_id = $2`,
				cmd.KeepID, cmd.MergeID,
			)
			if err != nil {
				return res, fmt.Errorf("reassign status history: %w", err)
			}
			res.StatusEntriesMoved = moved

			if err := r.writeBatchAudit(ctx, tx, "project_status_history", cmd, moved, reason, actor); err != nil {
				return res, err
			}
		}

		if err := softDeleteProject(ctx, tx, cmd.MergeID, reason); err != nil {
			return res, err
		}

		updated, err := snapshotProject(ctx, tx, cmd.MergeID)
		if err != nil {
			return res, err
		}

		rec := audit.Record{
			TableName: "projects",
			RecordID:  cmd.MergeID.String(),
			Action:    audit.ActionDelete,
			OldData:   old,
			NewData:   updated,
			Reason:    reason,
			Actor:     actor,
		}
		if err := r.audit.Write(ctx, tx, rec); err != nil {
			return res, err
		}

		return res, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("duplicate resolved by merge",
		"kept", cmd.KeepID,
		"merged", cmd.MergeID,
		"documents_moved", result.DocumentsMoved,
		"status_entries_moved", result.StatusEntriesMoved,
		"actor", actor,
	)
	return &result, nil
}

// lockActivePair locks both project rows and verifies each is still
// active. Returns ErrNotFound when either row is missing or deleted.
func lockActivePair(ctx context.Context, tx *sql.Tx, a, b uuid.UUID) error {
	rows, err := tx.QueryContext(
		ctx,
		"SELECT id FROM projects WHERE id IN ($1, $2) AND deleted_at IS NULL FOR UPDATE",
		a, b,
	)
	if err != nil {
		return fmt.Errorf("lock project pair: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if locked != 2 {
		return ErrNotFound
	}
	return nil
}

// snapshotProject captures a project row as JSON for audit entries.
func snapshotProject(ctx context.Context, tx *sql.Tx, id uuid.UUID) (json.RawMessage, error) {
	var raw json.RawMessage
	err := tx.QueryRowContext(
		ctx,
		"SELECT to_jsonb(projects) FROM projects WHERE id = $1",
		id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("snapshot project %s: %w", id, err)
	}
	return raw, nil
}

func softDeleteProject(ctx context.Context, tx *sql.Tx, id uuid.UUID, reason string) error {
	err := repository.ExecExpectOne(
		ctx, tx,
		`UPDATE projects
		 SET deleted_at = NOW(), delete_reason = $2, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, reason,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrInvalidPair)
	}
	return nil
}

func reassignRows(ctx context.Context, tx *sql.Tx, q string, keep, merge uuid.UUID) (int, error) {
	result, err := tx.ExecContext(ctx, q, keep, merge)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

type batchAudit struct {
	From  uuid.UUID `json:"from"`
	To    uuid.UUID `json:"to"`
	Moved int       `json:"moved"`
}

func (r *repo) writeBatchAudit(
	ctx context.Context,
	tx *sql.Tx,
	table string,
	cmd MergeCommand,
	moved int,
	reason, actor string,
) error {
	rec := audit.Record{
		TableName: table,
		RecordID:  cmd.MergeID.String(),
		Action:    audit.ActionUpdate,
		NewData:   batchAudit{From: cmd.MergeID, To: cmd.KeepID, Moved: moved},
		Reason:    reason,
		Actor:     actor,
	}
	return r.audit.Write(ctx, tx, rec)
}
