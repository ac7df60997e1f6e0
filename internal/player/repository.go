package player

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing player repository")

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

// Ensure inserts a minimal player record if none exists. Galaxy scans only
// carry id and name; an existing record is left untouched.
func (r *Repository) Ensure(ctx context.Context, id int64, name string, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "player_repository",
		"operation", "ensure",
		"player_id", id,
	)
	logger.Debug("Ensuring player exists")

	query := `
		INSERT INTO players (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := exec.ExecContext(ctx, query, id, name); err != nil {
		logger.Error("Failed to ensure player", "error", err)
		return fmt.Errorf("failed to ensure player %d: %w", id, err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Player, error) {
	logger := r.logger.With(
		"component", "player_repository",
		"operation", "get_by_id",
		"player_id", id,
	)
	logger.Debug("Getting player by ID")

	query := `
		SELECT id, name, alliance_id, score_total, score_economy, score_research,
		       score_military, score_defense, rank, research, is_deleted, created_at, updated_at
		FROM players
		WHERE id = $1
	`

	var player Player
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.AllianceID,
		&player.ScoreTotal,
		&player.ScoreEconomy,
		&player.ScoreResearch,
		&player.ScoreMilitary,
		&player.ScoreDefense,
		&player.Rank,
		&player.Research,
		&player.IsDeleted,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("player %d not found", id)
	}
	if err != nil {
		logger.Error("Failed to get player", "error", err)
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}

	return &player, nil
}

func (r *Repository) UpdateAlliance(ctx context.Context, playerID, allianceID int64, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "player_repository",
		"operation", "update_alliance",
		"player_id", playerID,
		"alliance_id", allianceID,
	)
	logger.Debug("Updating player alliance")

	query := `UPDATE players SET alliance_id = $1, updated_at = NOW() WHERE id = $2`

	if _, err := exec.ExecContext(ctx, query, allianceID, playerID); err != nil {
		logger.Error("Failed to update player alliance", "error", err)
		if database.IsForeignKeyViolation(err) {
			return errors.WrapConflict(fmt.Sprintf("alliance %d does not exist", allianceID), err)
		}
		return fmt.Errorf("failed to update alliance for player %d: %w", playerID, err)
	}

	return nil
}

// MarkDeleted flags a player as logically deleted. The record is kept so
// planets and reports linked to it stay resolvable.
func (r *Repository) MarkDeleted(ctx context.Context, id int64) error {
	logger := r.logger.With(
		"component", "player_repository",
		"operation", "mark_deleted",
		"player_id", id,
	)
	logger.Debug("Marking player as deleted")

	query := `UPDATE players SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("Failed to mark player deleted", "error", err)
		return fmt.Errorf("failed to mark player %d deleted: %w", id, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("player %d not found", id)
	}

	return nil
}

// UpdateResearch replaces a player's last known research levels.
func (r *Repository) UpdateResearch(ctx context.Context, playerID int64, researchJSON string) error {
	logger := r.logger.With(
		"component", "player_repository",
		"operation", "update_research",
		"player_id", playerID,
	)
	logger.Debug("Updating player research")

	query := `UPDATE players SET research = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, researchJSON, playerID)
	if err != nil {
		logger.Error("Failed to update player research", "error", err)
		return fmt.Errorf("failed to update research for player %d: %w", playerID, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("player %d not found", playerID)
	}

	return nil
}

// UpsertStats refreshes player score columns and appends one score snapshot
// per player, all inside a single transaction. Re-syncing the same statistics
// page is a no-op for snapshots that already exist at that recorded_at.
func (r *Repository) UpsertStats(ctx context.Context, stats []Stats, recordedAt time.Time) (int64, error) {
	logger := r.logger.With(
		"component", "player_repository",
		"operation", "upsert_stats",
		"count", len(stats),
	)
	logger.Debug("Upserting player statistics")

	if len(stats) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upsertQuery := `
		INSERT INTO players (id, name, alliance_id, score_total, score_economy,
		                     score_research, score_military, score_defense, rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			alliance_id = COALESCE(EXCLUDED.alliance_id, players.alliance_id),
			score_total = EXCLUDED.score_total,
			score_economy = EXCLUDED.score_economy,
			score_research = EXCLUDED.score_research,
			score_military = EXCLUDED.score_military,
			score_defense = EXCLUDED.score_defense,
			rank = EXCLUDED.rank,
			updated_at = NOW()
	`

	snapshotQuery := `
		INSERT INTO player_scores (player_id, score_total, score_economy, score_research,
		                           score_military, score_defense, rank_total, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id, recorded_at) DO NOTHING
	`

	var count int64
	for _, s := range stats {
		if _, err := tx.ExecContext(ctx, upsertQuery,
			s.ID, s.Name, s.AllianceID, s.ScoreTotal, s.ScoreEconomy,
			s.ScoreResearch, s.ScoreMilitary, s.ScoreDefense, s.Rank,
		); err != nil {
			logger.Error("Failed to upsert player stats", "player_id", s.ID, "error", err)
			return 0, fmt.Errorf("failed to upsert stats for player %d: %w", s.ID, err)
		}

		result, err := tx.ExecContext(ctx, snapshotQuery,
			s.ID, s.ScoreTotal, s.ScoreEconomy, s.ScoreResearch,
			s.ScoreMilitary, s.ScoreDefense, s.Rank, recordedAt,
		)
		if err != nil {
			logger.Error("Failed to append score snapshot", "player_id", s.ID, "error", err)
			return 0, fmt.Errorf("failed to append score snapshot for player %d: %w", s.ID, err)
		}

		// DO NOTHING on a re-sync reports zero affected rows, so count
		// reflects snapshots actually added.
		if inserted, err := result.RowsAffected(); err == nil {
			count += inserted
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit stats transaction", "error", err)
		return 0, fmt.Errorf("failed to commit player stats: %w", err)
	}

	logger.Info("Player statistics upserted", "count", count)
	return count, nil
}
