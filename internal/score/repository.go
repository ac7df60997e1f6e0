package score

import (
	"context"
	"fmt"
	"log/slog"

	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/errors"
)

// RecentChartDays bounds the rolling trend window of the recent chart.
const RecentChartDays = 56

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing score repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Append inserts a snapshot. A snapshot already present at the same
// (player_id, recorded_at) is a conflict, not a merge target.
func (r *Repository) Append(ctx context.Context, snapshot *Snapshot) error {
	logger := r.logger.With(
		"component", "score_repository",
		"operation", "append",
		"player_id", snapshot.PlayerID,
		"recorded_at", snapshot.RecordedAt,
	)
	logger.Debug("Appending score snapshot")

	query := `
		INSERT INTO player_scores (player_id, score_total, score_economy, score_research,
		                           score_military, score_defense, rank_total, rank_economy,
		                           rank_research, rank_military, rank_defense, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.PlayerID, snapshot.ScoreTotal, snapshot.ScoreEconomy, snapshot.ScoreResearch,
		snapshot.ScoreMilitary, snapshot.ScoreDefense, snapshot.RankTotal, snapshot.RankEconomy,
		snapshot.RankResearch, snapshot.RankMilitary, snapshot.RankDefense, snapshot.RecordedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.Conflictf("score snapshot for player %d at %s already exists",
				snapshot.PlayerID, snapshot.RecordedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		if database.IsForeignKeyViolation(err) {
			return errors.WrapConflict(fmt.Sprintf("player %d does not exist", snapshot.PlayerID), err)
		}
		logger.Error("Failed to append score snapshot", "error", err)
		return fmt.Errorf("failed to append score snapshot for player %d: %w", snapshot.PlayerID, err)
	}

	return nil
}

// GetAllianceChart returns the full series for every player currently in the
// alliance, ascending by player then time for trend plotting.
func (r *Repository) GetAllianceChart(ctx context.Context, allianceID int64) ([]Snapshot, error) {
	logger := r.logger.With(
		"component", "score_repository",
		"operation", "get_alliance_chart",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting alliance score chart")

	query := `
		SELECT ps.id, ps.player_id, ps.score_total, ps.score_economy, ps.score_research,
		       ps.score_military, ps.score_defense, ps.rank_total, ps.rank_economy,
		       ps.rank_research, ps.rank_military, ps.rank_defense, ps.recorded_at
		FROM player_scores ps
		JOIN players p ON ps.player_id = p.id
		WHERE p.alliance_id = $1 AND p.is_deleted = FALSE
		ORDER BY ps.player_id, ps.recorded_at
	`

	return r.querySnapshots(ctx, logger, query, allianceID)
}

// GetAllianceRecentChart restricts the series to the rolling trend window,
// ordered most recent first for display.
func (r *Repository) GetAllianceRecentChart(ctx context.Context, allianceID int64) ([]Snapshot, error) {
	logger := r.logger.With(
		"component", "score_repository",
		"operation", "get_alliance_recent_chart",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting recent alliance score chart")

	query := fmt.Sprintf(`
		SELECT ps.id, ps.player_id, ps.score_total, ps.score_economy, ps.score_research,
		       ps.score_military, ps.score_defense, ps.rank_total, ps.rank_economy,
		       ps.rank_research, ps.rank_military, ps.rank_defense, ps.recorded_at
		FROM player_scores ps
		JOIN players p ON ps.player_id = p.id
		WHERE p.alliance_id = $1 AND p.is_deleted = FALSE
		  AND ps.recorded_at >= NOW() - INTERVAL '%d days'
		ORDER BY ps.recorded_at DESC, ps.player_id
	`, RecentChartDays)

	return r.querySnapshots(ctx, logger, query, allianceID)
}

// GetPlayerChart returns one player's full series ascending by time.
func (r *Repository) GetPlayerChart(ctx context.Context, playerID int64) ([]Snapshot, error) {
	logger := r.logger.With(
		"component", "score_repository",
		"operation", "get_player_chart",
		"player_id", playerID,
	)
	logger.Debug("Getting player score chart")

	query := `
		SELECT id, player_id, score_total, score_economy, score_research,
		       score_military, score_defense, rank_total, rank_economy,
		       rank_research, rank_military, rank_defense, recorded_at
		FROM player_scores
		WHERE player_id = $1
		ORDER BY recorded_at
	`

	return r.querySnapshots(ctx, logger, query, playerID)
}

func (r *Repository) querySnapshots(ctx context.Context, logger *slog.Logger, query string, args ...interface{}) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query score snapshots", "error", err)
		return nil, fmt.Errorf("failed to query score snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var snapshots []Snapshot
	for rows.Next() {
		var snapshot Snapshot
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.PlayerID,
			&snapshot.ScoreTotal,
			&snapshot.ScoreEconomy,
			&snapshot.ScoreResearch,
			&snapshot.ScoreMilitary,
			&snapshot.ScoreDefense,
			&snapshot.RankTotal,
			&snapshot.RankEconomy,
			&snapshot.RankResearch,
			&snapshot.RankMilitary,
			&snapshot.RankDefense,
			&snapshot.RecordedAt,
		)
		if err != nil {
			logger.Error("Failed to scan snapshot row", "error", err)
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	logger.Debug("Score snapshots retrieved", "count", len(snapshots))
	return snapshots, nil
}
