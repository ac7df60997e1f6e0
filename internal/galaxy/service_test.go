package galaxy

import (
	"context"
	"log/slog"
	"testing"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/planet"
	"alliance-tracker/internal/player"
	"alliance-tracker/internal/report"
	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSystemValidation(t *testing.T) {
	s := NewService(nil, nil, slog.Default())

	_, err := s.GetSystem(context.Background(), 0, 5)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestGetSystemComposesView(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "spy_reports", "planets", "players", "alliances")

	logger := slog.Default()
	playerService := player.NewService(player.NewRepository(db, logger), logger)
	allianceService := alliance.NewService(alliance.NewRepository(db, logger), logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), playerService, allianceService, nil, logger)
	reportService := report.NewService(report.NewRepository(db, logger), logger)
	s := NewService(planetService, reportService, logger)
	ctx := context.Background()

	playerID := int64(77)
	playerName := "Scout"
	planetName := "Waypoint"
	_, err := planetService.MergeGalaxyScan(ctx, planet.GalaxyScan{
		Galaxy: 6,
		System: 50,
		Planets: []planet.ScanEntry{
			{Position: 4, PlayerID: &playerID, PlayerName: &playerName, PlanetName: &planetName},
		},
	})
	require.NoError(t, err)

	require.NoError(t, reportService.MergeSpyReport(ctx, &report.SpyReport{
		ExternalID: 801, Galaxy: 6, System: 50, Planet: 4,
	}))

	view, err := s.GetSystem(ctx, 6, 50)
	require.NoError(t, err)
	require.Len(t, view.Planets, 1)
	assert.Equal(t, coords.New(6, 50, 4).String(), view.Planets[0].Coordinates)
	require.Len(t, view.SpyReports, 1)
	assert.Equal(t, int64(801), view.SpyReports[0].ExternalID)
	require.NotNil(t, view.LastScanAt)
}

func TestGetSystemUnscanned(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "spy_reports", "planets", "players", "alliances")

	logger := slog.Default()
	playerService := player.NewService(player.NewRepository(db, logger), logger)
	allianceService := alliance.NewService(alliance.NewRepository(db, logger), logger)
	planetService := planet.NewService(planet.NewRepository(db, logger), playerService, allianceService, nil, logger)
	reportService := report.NewService(report.NewRepository(db, logger), logger)
	s := NewService(planetService, reportService, logger)

	view, err := s.GetSystem(context.Background(), 9, 499)
	require.NoError(t, err)
	assert.Empty(t, view.Planets)
	assert.Empty(t, view.SpyReports)
	assert.Nil(t, view.LastScanAt)
}
