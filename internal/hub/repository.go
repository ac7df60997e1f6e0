package hub

import (
	"context"
	"fmt"
	"log/slog"

	"alliance-tracker/internal/shared/database"
)

// Repository holds the read-only joins behind the alliance dashboards. It
// never creates or mutates entities; any merge logic belongs to the domain
// repositories.
type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing hub repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetAlliancePlanets lists the live planets of every player in the alliance,
// ordered by galaxy, system and planet position.
func (r *Repository) GetAlliancePlanets(ctx context.Context, allianceID int64) ([]AlliancePlanet, error) {
	logger := r.logger.With(
		"component", "hub_repository",
		"operation", "get_alliance_planets",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting alliance planets")

	query := `
		SELECT pl.id, pl.name, pl.player_id, p.name AS player_name, pl.coordinates,
		       pl.galaxy, pl.system, pl.planet, pl.type,
		       pl.buildings, pl.fleet, pl.defense, pl.resources, pl.prod_h
		FROM planets pl
		JOIN players p ON pl.player_id = p.id
		WHERE p.alliance_id = $1
		  AND (pl.status IS NULL OR pl.status != 'deleted')
		ORDER BY pl.galaxy, pl.system, pl.planet
	`

	rows, err := r.db.QueryContext(ctx, query, allianceID)
	if err != nil {
		logger.Error("Failed to query alliance planets", "error", err)
		return nil, fmt.Errorf("failed to query alliance planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []AlliancePlanet
	for rows.Next() {
		var planet AlliancePlanet
		err := rows.Scan(
			&planet.ID,
			&planet.Name,
			&planet.PlayerID,
			&planet.PlayerName,
			&planet.Coordinates,
			&planet.Galaxy,
			&planet.System,
			&planet.Planet,
			&planet.Type,
			&planet.Buildings,
			&planet.Fleet,
			&planet.Defense,
			&planet.Resources,
			&planet.ProdH,
		)
		if err != nil {
			logger.Error("Failed to scan alliance planet row", "error", err)
			return nil, fmt.Errorf("failed to scan alliance planet: %w", err)
		}
		planets = append(planets, planet)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating alliance planets: %w", err)
	}

	logger.Debug("Alliance planets retrieved", "count", len(planets))
	return planets, nil
}

// GetFleetRoster returns the per-planet fleet snapshots of an alliance,
// skipping soft-deleted planets, planets with no fleet data and logically
// deleted players.
func (r *Repository) GetFleetRoster(ctx context.Context, allianceID int64) ([]FleetRosterRow, error) {
	logger := r.logger.With(
		"component", "hub_repository",
		"operation", "get_fleet_roster",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting alliance fleet roster")

	query := `
		SELECT p.id, p.name, p.score_military, pl.coordinates, pl.fleet
		FROM planets pl
		JOIN players p ON pl.player_id = p.id
		WHERE p.alliance_id = $1
		  AND p.is_deleted = FALSE
		  AND pl.fleet IS NOT NULL
		  AND (pl.status IS NULL OR pl.status != 'deleted')
		ORDER BY p.name, pl.galaxy, pl.system, pl.planet
	`

	rows, err := r.db.QueryContext(ctx, query, allianceID)
	if err != nil {
		logger.Error("Failed to query fleet roster", "error", err)
		return nil, fmt.Errorf("failed to query fleet roster: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var roster []FleetRosterRow
	for rows.Next() {
		var row FleetRosterRow
		if err := rows.Scan(&row.PlayerID, &row.PlayerName, &row.ScoreMilitary, &row.Coordinates, &row.Fleet); err != nil {
			logger.Error("Failed to scan fleet roster row", "error", err)
			return nil, fmt.Errorf("failed to scan fleet roster: %w", err)
		}
		roster = append(roster, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating fleet roster: %w", err)
	}

	return roster, nil
}

// GetBuildingsRoster returns the per-planet building snapshots of an alliance
// under the same filters as the fleet roster.
func (r *Repository) GetBuildingsRoster(ctx context.Context, allianceID int64) ([]BuildingsRosterRow, error) {
	logger := r.logger.With(
		"component", "hub_repository",
		"operation", "get_buildings_roster",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting alliance buildings roster")

	query := `
		SELECT p.id, p.name, pl.coordinates, pl.buildings
		FROM planets pl
		JOIN players p ON pl.player_id = p.id
		WHERE p.alliance_id = $1
		  AND p.is_deleted = FALSE
		  AND pl.buildings IS NOT NULL
		  AND (pl.status IS NULL OR pl.status != 'deleted')
		ORDER BY p.name, pl.galaxy, pl.system, pl.planet
	`

	rows, err := r.db.QueryContext(ctx, query, allianceID)
	if err != nil {
		logger.Error("Failed to query buildings roster", "error", err)
		return nil, fmt.Errorf("failed to query buildings roster: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var roster []BuildingsRosterRow
	for rows.Next() {
		var row BuildingsRosterRow
		if err := rows.Scan(&row.PlayerID, &row.PlayerName, &row.Coordinates, &row.Buildings); err != nil {
			logger.Error("Failed to scan buildings roster row", "error", err)
			return nil, fmt.Errorf("failed to scan buildings roster: %w", err)
		}
		roster = append(roster, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating buildings roster: %w", err)
	}

	return roster, nil
}

// GetResearchRoster returns each live player's last known research levels.
func (r *Repository) GetResearchRoster(ctx context.Context, allianceID int64) ([]ResearchRosterRow, error) {
	logger := r.logger.With(
		"component", "hub_repository",
		"operation", "get_research_roster",
		"alliance_id", allianceID,
	)
	logger.Debug("Getting alliance research roster")

	query := `
		SELECT id, name, research
		FROM players
		WHERE alliance_id = $1 AND is_deleted = FALSE
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, allianceID)
	if err != nil {
		logger.Error("Failed to query research roster", "error", err)
		return nil, fmt.Errorf("failed to query research roster: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var roster []ResearchRosterRow
	for rows.Next() {
		var row ResearchRosterRow
		if err := rows.Scan(&row.PlayerID, &row.PlayerName, &row.Research); err != nil {
			logger.Error("Failed to scan research roster row", "error", err)
			return nil, fmt.Errorf("failed to scan research roster: %w", err)
		}
		roster = append(roster, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating research roster: %w", err)
	}

	return roster, nil
}

// GetScanStatus reads the last-scan timestamp per system off the position-0
// marker planets.
func (r *Repository) GetScanStatus(ctx context.Context) ([]SystemScanStatus, error) {
	logger := r.logger.With("component", "hub_repository", "operation", "get_scan_status")
	logger.Debug("Getting galaxy scan status")

	query := `
		SELECT galaxy, system, updated_at
		FROM planets
		WHERE planet = 0
		ORDER BY galaxy, system
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query scan status", "error", err)
		return nil, fmt.Errorf("failed to query scan status: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var status []SystemScanStatus
	for rows.Next() {
		var row SystemScanStatus
		if err := rows.Scan(&row.Galaxy, &row.System, &row.LastScanAt); err != nil {
			logger.Error("Failed to scan status row", "error", err)
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		status = append(status, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating scan status: %w", err)
	}

	return status, nil
}
