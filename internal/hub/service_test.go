package hub

import (
	"context"
	"log/slog"
	"testing"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/planet"
	"alliance-tracker/internal/player"
	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAlliancePlanet(t *testing.T, db *database.DB, planets *planet.Service) {
	t.Helper()
	ctx := context.Background()

	playerID := int64(60)
	playerName := "Quartermaster"
	planetName := "Depot"
	allianceID := int64(8)
	allianceTag := "DEP"
	_, err := planets.MergeGalaxyScan(ctx, planet.GalaxyScan{
		Galaxy: 7,
		System: 60,
		Planets: []planet.ScanEntry{
			{
				Position:    5,
				PlayerID:    &playerID,
				PlayerName:  &playerName,
				PlanetName:  &planetName,
				AllianceID:  &allianceID,
				AllianceTag: &allianceTag,
			},
		},
	})
	require.NoError(t, err)
}

func TestAllianceRosters(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	logger := slog.Default()
	playerService := player.NewService(player.NewRepository(db, logger), logger)
	allianceService := alliance.NewService(alliance.NewRepository(db, logger), logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), playerService, allianceService, nil, logger)
	s := NewService(NewRepository(db, logger), nil, logger)
	ctx := context.Background()

	seedAlliancePlanet(t, db, planetService)

	planets, err := s.GetAlliancePlanets(ctx, 8)
	require.NoError(t, err)
	require.Len(t, planets, 1)
	assert.Equal(t, "Quartermaster", planets[0].PlayerName)

	// No fleet observed yet, so the fleet roster is empty.
	fleet, err := s.GetFleetRoster(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, fleet)

	fleetJSON := `{"light_fighter":40}`
	require.NoError(t, planetService.MergeDetailedObservation(ctx, coords.New(7, 60, 5), planet.TypePlanet, planet.DetailedObservation{
		Fleet: &fleetJSON,
	}))

	fleet, err = s.GetFleetRoster(ctx, 8)
	require.NoError(t, err)
	require.Len(t, fleet, 1)
	require.NotNil(t, fleet[0].Fleet)
	assert.JSONEq(t, fleetJSON, *fleet[0].Fleet)
}

func TestScanStatusWithoutCache(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	logger := slog.Default()
	playerService := player.NewService(player.NewRepository(db, logger), logger)
	allianceService := alliance.NewService(alliance.NewRepository(db, logger), logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), playerService, allianceService, nil, logger)
	s := NewService(NewRepository(db, logger), nil, logger)
	ctx := context.Background()

	status, err := s.GetScanStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, status)

	// An empty scan still refreshes the marker for its system.
	_, err = planetService.MergeGalaxyScan(ctx, planet.GalaxyScan{Galaxy: 1, System: 17})
	require.NoError(t, err)
	_, err = planetService.MergeGalaxyScan(ctx, planet.GalaxyScan{Galaxy: 1, System: 18})
	require.NoError(t, err)

	status, err = s.GetScanStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.Equal(t, int64(17), status[0].System)
	assert.Equal(t, int64(18), status[1].System)
}
