package planet

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
	logger.Debug("Initializing planet repository")

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

const planetColumns = `id, name, player_id, coordinates, galaxy, system, planet, type,
	source_planet_id, buildings, fleet, defense, resources, prod_h, status, created_at, updated_at`

func scanPlanet(row interface{ Scan(...interface{}) error }) (*Planet, error) {
	var planet Planet
	err := row.Scan(
		&planet.ID,
		&planet.Name,
		&planet.PlayerID,
		&planet.Coordinates,
		&planet.Galaxy,
		&planet.System,
		&planet.Planet,
		&planet.Type,
		&planet.SourcePlanetID,
		&planet.Buildings,
		&planet.Fleet,
		&planet.Defense,
		&planet.Resources,
		&planet.ProdH,
		&planet.Status,
		&planet.CreatedAt,
		&planet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &planet, nil
}

// UpsertFromScan merges one galaxy-scan sighting into the registry. On
// conflict the last scan wins for name and owner, while source_planet_id is
// only replaced when the scan actually carried one: some scan variants never
// see it, and a missing value must not erase a previously known id.
func (r *Repository) UpsertFromScan(ctx context.Context, name *string, playerID *int64, coordinates string, galaxy, system, planet int64, planetType Type, sourcePlanetID *int64, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "upsert_from_scan",
		"coordinates", coordinates,
		"type", planetType,
	)
	logger.Debug("Upserting planet from scan")

	query := `
		INSERT INTO planets (name, player_id, coordinates, galaxy, system, planet, type, source_planet_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'normal')
		ON CONFLICT (coordinates, type) DO UPDATE SET
			name = EXCLUDED.name,
			player_id = EXCLUDED.player_id,
			source_planet_id = COALESCE(EXCLUDED.source_planet_id, planets.source_planet_id),
			updated_at = NOW()
	`

	if _, err := exec.ExecContext(ctx, query, name, playerID, coordinates, galaxy, system, planet, planetType, sourcePlanetID); err != nil {
		logger.Error("Failed to upsert planet", "error", err)
		if database.IsForeignKeyViolation(err) {
			return errors.WrapConflict("planet references unknown player", err)
		}
		return fmt.Errorf("failed to upsert planet %s/%s: %w", coordinates, planetType, err)
	}

	return nil
}

func (r *Repository) UpdateBuildings(ctx context.Context, coordinates string, planetType Type, buildingsJSON string) error {
	return r.updateDetail(ctx, coordinates, planetType, "buildings", buildingsJSON)
}

func (r *Repository) UpdateFleet(ctx context.Context, coordinates string, planetType Type, fleetJSON string) error {
	return r.updateDetail(ctx, coordinates, planetType, "fleet", fleetJSON)
}

func (r *Repository) UpdateDefense(ctx context.Context, coordinates string, planetType Type, defenseJSON string) error {
	return r.updateDetail(ctx, coordinates, planetType, "defense", defenseJSON)
}

func (r *Repository) UpdateResources(ctx context.Context, coordinates string, planetType Type, resourcesJSON string) error {
	return r.updateDetail(ctx, coordinates, planetType, "resources", resourcesJSON)
}

func (r *Repository) updateDetail(ctx context.Context, coordinates string, planetType Type, column, jsonValue string) error {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "update_"+column,
		"coordinates", coordinates,
		"type", planetType,
	)
	logger.Debug("Updating planet detail")

	// column is one of the fixed detail names above, never caller input
	query := fmt.Sprintf(`UPDATE planets SET %s = $1, updated_at = NOW() WHERE coordinates = $2 AND type = $3`, column)

	result, err := r.db.ExecContext(ctx, query, jsonValue, coordinates, planetType)
	if err != nil {
		logger.Error("Failed to update planet detail", "error", err)
		return fmt.Errorf("failed to update %s for planet %s/%s: %w", column, coordinates, planetType, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("planet %s/%s not found", coordinates, planetType)
	}

	return nil
}

func (r *Repository) UpdateProduction(ctx context.Context, coordinates string, planetType Type, prodH int64) error {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "update_production",
		"coordinates", coordinates,
		"type", planetType,
	)
	logger.Debug("Updating planet production rate")

	query := `UPDATE planets SET prod_h = $1, updated_at = NOW() WHERE coordinates = $2 AND type = $3`

	result, err := r.db.ExecContext(ctx, query, prodH, coordinates, planetType)
	if err != nil {
		logger.Error("Failed to update planet production", "error", err)
		return fmt.Errorf("failed to update production for planet %s/%s: %w", coordinates, planetType, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("planet %s/%s not found", coordinates, planetType)
	}

	return nil
}

// MarkDeleted soft-deletes a planet. The row is kept so spy and recycle
// reports against the coordinate stay linked to something.
func (r *Repository) MarkDeleted(ctx context.Context, coordinates string, planetType Type, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "mark_deleted",
		"coordinates", coordinates,
		"type", planetType,
	)
	logger.Debug("Marking planet as deleted")

	query := `UPDATE planets SET status = 'deleted', updated_at = NOW() WHERE coordinates = $1 AND type = $2`

	if _, err := exec.ExecContext(ctx, query, coordinates, planetType); err != nil {
		logger.Error("Failed to mark planet deleted", "error", err)
		return fmt.Errorf("failed to mark planet %s/%s deleted: %w", coordinates, planetType, err)
	}

	return nil
}

// GetByCoordinates is the direct key lookup; soft-deleted planets are returned.
func (r *Repository) GetByCoordinates(ctx context.Context, coordinates string, planetType Type) (*Planet, error) {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "get_by_coordinates",
		"coordinates", coordinates,
		"type", planetType,
	)
	logger.Debug("Getting planet by coordinates")

	query := `
		SELECT ` + planetColumns + `
		FROM planets
		WHERE coordinates = $1 AND type = $2
	`

	planet, err := scanPlanet(r.db.QueryRowContext(ctx, query, coordinates, planetType))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("planet %s/%s not found", coordinates, planetType)
	}
	if err != nil {
		logger.Error("Failed to get planet", "error", err)
		return nil, fmt.Errorf("failed to get planet %s/%s: %w", coordinates, planetType, err)
	}

	return planet, nil
}

// GetSystem lists the live planets of a system, excluding the position-0 scan
// marker and soft-deleted records. NULL status counts as active.
func (r *Repository) GetSystem(ctx context.Context, galaxy, system int64) ([]Planet, error) {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "get_system",
		"galaxy", galaxy,
		"system", system,
	)
	logger.Debug("Getting planets by system")

	query := `
		SELECT ` + planetColumns + `
		FROM planets
		WHERE galaxy = $1 AND system = $2 AND planet > 0
		  AND (status IS NULL OR status != 'deleted')
		ORDER BY planet, type
	`

	rows, err := r.db.QueryContext(ctx, query, galaxy, system)
	if err != nil {
		logger.Error("Failed to query system planets", "error", err)
		return nil, fmt.Errorf("failed to query system %d:%d: %w", galaxy, system, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Planet
	for rows.Next() {
		planet, err := scanPlanet(rows)
		if err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, *planet)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("System planets retrieved", "count", len(planets))
	return planets, nil
}

// MarkerTimestamp returns when a single system was last scanned, or nil if
// it never was.
func (r *Repository) MarkerTimestamp(ctx context.Context, galaxy, system int64) (*SystemScan, error) {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "marker_timestamp",
		"galaxy", galaxy,
		"system", system,
	)
	logger.Debug("Getting system marker timestamp")

	query := `SELECT galaxy, system, updated_at FROM planets WHERE galaxy = $1 AND system = $2 AND planet = 0`

	var scan SystemScan
	err := r.db.QueryRowContext(ctx, query, galaxy, system).Scan(&scan.Galaxy, &scan.System, &scan.LastScanAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to get marker timestamp", "error", err)
		return nil, fmt.Errorf("failed to get marker for system %d:%d: %w", galaxy, system, err)
	}

	return &scan, nil
}
