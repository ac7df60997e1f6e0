package alliance

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing alliance repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// Ensure creates the alliance or refreshes its tag. The name is fixed at
// creation; later registrations only move the tag, since tags are what
// players rename while the founding name stays stable.
func (r *Repository) Ensure(ctx context.Context, id int64, name, tag string, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "alliance_repository",
		"operation", "ensure",
		"alliance_id", id,
		"tag", tag,
	)
	logger.Debug("Ensuring alliance exists")

	query := `
		INSERT INTO alliances (id, name, tag)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			tag = EXCLUDED.tag,
			updated_at = NOW()
	`

	if _, err := exec.ExecContext(ctx, query, id, name, tag); err != nil {
		logger.Error("Failed to ensure alliance", "error", err)
		return fmt.Errorf("failed to ensure alliance %d: %w", id, err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Alliance, error) {
	logger := r.logger.With(
		"component", "alliance_repository",
		"operation", "get_by_id",
		"alliance_id", id,
	)
	logger.Debug("Getting alliance by ID")

	query := `SELECT id, name, tag, created_at, updated_at FROM alliances WHERE id = $1`

	var alliance Alliance
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&alliance.ID,
		&alliance.Name,
		&alliance.Tag,
		&alliance.CreatedAt,
		&alliance.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("alliance %d not found", id)
	}
	if err != nil {
		logger.Error("Failed to get alliance", "error", err)
		return nil, fmt.Errorf("failed to get alliance %d: %w", id, err)
	}

	return &alliance, nil
}
