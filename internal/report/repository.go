package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"alliance-tracker/internal/shared/database"

	"github.com/lib/pq"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing report repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertSpy merges a spy report submission. The external id is the
// idempotency key: a resubmission overwrites the observational payloads and
// the report time, while coordinates and type keep their insert-time values
// and the reporter is only set once. Last write wins regardless of report
// time ordering.
func (r *Repository) UpsertSpy(ctx context.Context, report *SpyReport) error {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "upsert_spy",
		"external_id", report.ExternalID,
		"coordinates", report.Coordinates,
	)
	logger.Debug("Upserting spy report")

	query := `
		INSERT INTO spy_reports (external_id, coordinates, galaxy, system, planet, type,
		                         resources, buildings, research, fleet, defense, reported_by, report_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id) DO UPDATE SET
			resources = EXCLUDED.resources,
			buildings = EXCLUDED.buildings,
			research = EXCLUDED.research,
			fleet = EXCLUDED.fleet,
			defense = EXCLUDED.defense,
			report_time = EXCLUDED.report_time,
			reported_by = COALESCE(spy_reports.reported_by, EXCLUDED.reported_by)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ExternalID, report.Coordinates, report.Galaxy, report.System, report.Planet, report.Type,
		report.Resources, report.Buildings, report.Research, report.Fleet, report.Defense,
		report.ReportedBy, report.ReportTime,
	)
	if err != nil {
		logger.Error("Failed to upsert spy report", "error", err)
		return fmt.Errorf("failed to upsert spy report %d: %w", report.ExternalID, err)
	}

	return nil
}

// UpsertRecycle merges a recycle report; same merge shape as UpsertSpy with
// the debris yield field set.
func (r *Repository) UpsertRecycle(ctx context.Context, report *RecycleReport) error {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "upsert_recycle",
		"external_id", report.ExternalID,
		"coordinates", report.Coordinates,
	)
	logger.Debug("Upserting recycle report")

	query := `
		INSERT INTO recycle_reports (external_id, coordinates, galaxy, system, planet,
		                             metal, crystal, metal_tf, crystal_tf, reported_by, report_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO UPDATE SET
			metal = EXCLUDED.metal,
			crystal = EXCLUDED.crystal,
			metal_tf = EXCLUDED.metal_tf,
			crystal_tf = EXCLUDED.crystal_tf,
			report_time = EXCLUDED.report_time,
			reported_by = COALESCE(recycle_reports.reported_by, EXCLUDED.reported_by)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ExternalID, report.Coordinates, report.Galaxy, report.System, report.Planet,
		report.Metal, report.Crystal, report.MetalTF, report.CrystalTF,
		report.ReportedBy, report.ReportTime,
	)
	if err != nil {
		logger.Error("Failed to upsert recycle report", "error", err)
		return fmt.Errorf("failed to upsert recycle report %d: %w", report.ExternalID, err)
	}

	return nil
}

// UpsertBattle merges a battle report; same merge shape with the
// losses/loot/debris field set.
func (r *Repository) UpsertBattle(ctx context.Context, report *BattleReport) error {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "upsert_battle",
		"external_id", report.ExternalID,
		"coordinates", report.Coordinates,
	)
	logger.Debug("Upserting battle report")

	query := `
		INSERT INTO battle_reports (external_id, coordinates, galaxy, system, planet, type,
		                            attacker_lost, defender_lost, metal, crystal, deuterium,
		                            debris_metal, debris_crystal, reported_by, report_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (external_id) DO UPDATE SET
			attacker_lost = EXCLUDED.attacker_lost,
			defender_lost = EXCLUDED.defender_lost,
			metal = EXCLUDED.metal,
			crystal = EXCLUDED.crystal,
			deuterium = EXCLUDED.deuterium,
			debris_metal = EXCLUDED.debris_metal,
			debris_crystal = EXCLUDED.debris_crystal,
			report_time = EXCLUDED.report_time,
			reported_by = COALESCE(battle_reports.reported_by, EXCLUDED.reported_by)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ExternalID, report.Coordinates, report.Galaxy, report.System, report.Planet, report.Type,
		report.AttackerLost, report.DefenderLost, report.Metal, report.Crystal, report.Deuterium,
		report.DebrisMetal, report.DebrisCrystal, report.ReportedBy, report.ReportTime,
	)
	if err != nil {
		logger.Error("Failed to upsert battle report", "error", err)
		return fmt.Errorf("failed to upsert battle report %d: %w", report.ExternalID, err)
	}

	return nil
}

// ExistingMessageIDs returns the subset of ids already recorded. A pure
// query: no side effects, empty input yields an empty result.
func (r *Repository) ExistingMessageIDs(ctx context.Context, ids []int64) ([]int64, error) {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "existing_message_ids",
		"count", len(ids),
	)
	logger.Debug("Checking existing message IDs")

	if len(ids) == 0 {
		return []int64{}, nil
	}

	query := `SELECT external_id FROM messages WHERE external_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("Failed to query message IDs", "error", err)
		return nil, fmt.Errorf("failed to query message IDs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	existing := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			logger.Error("Failed to scan message ID", "error", err)
			return nil, fmt.Errorf("failed to scan message ID: %w", err)
		}
		existing = append(existing, id)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating message IDs: %w", err)
	}

	logger.Debug("Existing message IDs resolved", "existing", len(existing))
	return existing, nil
}

// RecordMessageIDs persists newly seen submission ids. Concurrent recorders
// of the same id are harmless: ON CONFLICT DO NOTHING makes the race a no-op.
func (r *Repository) RecordMessageIDs(ctx context.Context, ids []int64) (int64, error) {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "record_message_ids",
		"count", len(ids),
	)
	logger.Debug("Recording message IDs")

	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("($%d)", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`INSERT INTO messages (external_id) VALUES %s ON CONFLICT (external_id) DO NOTHING`,
		strings.Join(placeholders, ", "),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to record message IDs", "error", err)
		return 0, fmt.Errorf("failed to record message IDs: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	logger.Debug("Message IDs recorded", "inserted", inserted)
	return inserted, nil
}

// GetSpyByCoordinates returns the most recent spy reports for one position.
func (r *Repository) GetSpyByCoordinates(ctx context.Context, galaxy, system, planet int64, planetType string, limit int64) ([]SpyReport, error) {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "get_spy_by_coordinates",
		"galaxy", galaxy,
		"system", system,
		"planet", planet,
	)
	logger.Debug("Getting spy reports by coordinates")

	query := `
		SELECT id, external_id, coordinates, galaxy, system, planet, type,
		       resources, buildings, research, fleet, defense, reported_by, report_time, created_at
		FROM spy_reports
		WHERE galaxy = $1 AND system = $2 AND planet = $3 AND type = $4
		ORDER BY created_at DESC
		LIMIT $5
	`

	return r.querySpyReports(ctx, logger, query, galaxy, system, planet, planetType, limit)
}

// GetSpyBySystem returns all spy reports within one system.
func (r *Repository) GetSpyBySystem(ctx context.Context, galaxy, system int64) ([]SpyReport, error) {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "get_spy_by_system",
		"galaxy", galaxy,
		"system", system,
	)
	logger.Debug("Getting spy reports by system")

	query := `
		SELECT id, external_id, coordinates, galaxy, system, planet, type,
		       resources, buildings, research, fleet, defense, reported_by, report_time, created_at
		FROM spy_reports
		WHERE galaxy = $1 AND system = $2
		ORDER BY planet, type, created_at DESC
	`

	return r.querySpyReports(ctx, logger, query, galaxy, system)
}

func (r *Repository) querySpyReports(ctx context.Context, logger *slog.Logger, query string, args ...interface{}) ([]SpyReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query spy reports", "error", err)
		return nil, fmt.Errorf("failed to query spy reports: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var reports []SpyReport
	for rows.Next() {
		var report SpyReport
		err := rows.Scan(
			&report.ID,
			&report.ExternalID,
			&report.Coordinates,
			&report.Galaxy,
			&report.System,
			&report.Planet,
			&report.Type,
			&report.Resources,
			&report.Buildings,
			&report.Research,
			&report.Fleet,
			&report.Defense,
			&report.ReportedBy,
			&report.ReportTime,
			&report.CreatedAt,
		)
		if err != nil {
			logger.Error("Failed to scan spy report row", "error", err)
			return nil, fmt.Errorf("failed to scan spy report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating spy reports: %w", err)
	}

	logger.Debug("Spy reports retrieved", "count", len(reports))
	return reports, nil
}

// GetSpyHistory returns the stored reports for one position joined with the
// reporter's player name, newest first.
func (r *Repository) GetSpyHistory(ctx context.Context, galaxy, system, planet int64, planetType string, limit int64) ([]SpyReportHistory, error) {
	logger := r.logger.With(
		"component", "report_repository",
		"operation", "get_spy_history",
		"galaxy", galaxy,
		"system", system,
		"planet", planet,
	)
	logger.Debug("Getting spy report history")

	query := `
		SELECT sr.id, sr.resources, sr.buildings, sr.research, sr.fleet, sr.defense,
		       sr.created_at, sr.report_time, p.name AS reporter_name
		FROM spy_reports sr
		LEFT JOIN users u ON sr.reported_by = u.id
		LEFT JOIN players p ON u.player_id = p.id
		WHERE sr.galaxy = $1 AND sr.system = $2 AND sr.planet = $3 AND sr.type = $4
		ORDER BY sr.created_at DESC
		LIMIT $5
	`

	rows, err := r.db.QueryContext(ctx, query, galaxy, system, planet, planetType, limit)
	if err != nil {
		logger.Error("Failed to query spy history", "error", err)
		return nil, fmt.Errorf("failed to query spy history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var history []SpyReportHistory
	for rows.Next() {
		var entry SpyReportHistory
		err := rows.Scan(
			&entry.ID,
			&entry.Resources,
			&entry.Buildings,
			&entry.Research,
			&entry.Fleet,
			&entry.Defense,
			&entry.CreatedAt,
			&entry.ReportTime,
			&entry.ReporterName,
		)
		if err != nil {
			logger.Error("Failed to scan spy history row", "error", err)
			return nil, fmt.Errorf("failed to scan spy history: %w", err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating spy history: %w", err)
	}

	return history, nil
}
