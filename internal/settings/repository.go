package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/solardesk/solardesk/internal/auth"
)

const scannerKey = "duplicate_scanner"

type repo struct {
	db     *sql.DB
	authz  auth.Authorizer
	logger *slog.Logger
}

// New creates a settings repository implementing the System interface.
func New(db *sql.DB, authz auth.Authorizer, logger *slog.Logger) System {
	return &repo{
		db:     db,
		authz:  authz,
		logger: logger.With("system", "settings"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Scanner(ctx context.Context) (Scanner, error) {
	var raw []byte
	err := r.db.QueryRowContext(
		ctx,
		"SELECT value FROM app_settings WHERE key = $1",
		scannerKey,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return DefaultScanner(), nil
	}
	if err != nil {
		return Scanner{}, fmt.Errorf("query scanner settings: %w", err)
	}

	s := DefaultScanner()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Scanner{}, fmt.Errorf("decode scanner settings: %w", err)
	}

	// A stored row predating a threshold change could carry stale values.
	if err := s.Validate(); err != nil {
		r.logger.Warn("stored scanner settings invalid, using defaults", "error", err)
		return DefaultScanner(), nil
	}

	return s, nil
}

func (r *repo) SaveScanner(ctx context.Context, s Scanner) (Scanner, error) {
	if !r.authz.CanEdit(ctx) {
		return Scanner{}, ErrForbidden
	}
	if err := s.Validate(); err != nil {
		return Scanner{}, err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return Scanner{}, fmt.Errorf("encode scanner settings: %w", err)
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO app_settings(key, value, updated_by)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()`,
		scannerKey, raw, r.authz.Actor(ctx),
	)
	if err != nil {
		return Scanner{}, fmt.Errorf("store scanner settings: %w", err)
	}

	r.logger.Info("scanner settings updated", "actor", r.authz.Actor(ctx))
	return s, nil
}

func (r *repo) ResetScanner(ctx context.Context) error {
	if !r.authz.CanEdit(ctx) {
		return ErrForbidden
	}

	_, err := r.db.ExecContext(
		ctx,
		"DELETE FROM app_settings WHERE key = $1",
		scannerKey,
	)
	if err != nil {
		return fmt.Errorf("reset scanner settings: %w", err)
	}

	r.logger.Info("scanner settings reset to defaults")
	return nil
}
