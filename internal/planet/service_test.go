package planet

import (
	"context"
	"log/slog"
	"testing"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/player"
	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, db *database.DB) *Service {
	t.Helper()

	logger := slog.Default()
	playerService := player.NewService(player.NewRepository(db, logger), logger)
	allianceService := alliance.NewService(alliance.NewRepository(db, logger), logger)
	return NewService(NewRepository(db, logger), playerService, allianceService, nil, logger)
}

func ptrInt64(v int64) *int64 { return &v }

func ptrString(v string) *string { return &v }

func TestMergeGalaxyScanValidation(t *testing.T) {
	s := NewService(nil, nil, nil, nil, slog.Default())

	_, err := s.MergeGalaxyScan(context.Background(), GalaxyScan{Galaxy: 0, System: 5})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	_, err = s.MergeGalaxyScan(context.Background(), GalaxyScan{Galaxy: 2, System: -1})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestMergeDetailedObservationValidation(t *testing.T) {
	s := NewService(nil, nil, nil, nil, slog.Default())

	err := s.MergeDetailedObservation(context.Background(), coords.New(1, 2, 3), Type("ASTEROID"), DetailedObservation{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestMergeGalaxyScanCreatesPlanetsAndMarker(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)
	ctx := context.Background()

	scan := GalaxyScan{
		Galaxy: 1,
		System: 42,
		Planets: []ScanEntry{
			{
				Position:    3,
				PlayerID:    ptrInt64(100),
				PlayerName:  ptrString("Kirk"),
				PlanetName:  ptrString("Homeworld"),
				AllianceID:  ptrInt64(7),
				AllianceTag: ptrString("FED"),
			},
			{
				Position:   5,
				PlayerID:   ptrInt64(200),
				PlayerName: ptrString("Spock"),
				PlanetName: ptrString("Outpost"),
				HasMoon:    true,
				MoonName:   ptrString("Outpost Moon"),
			},
			// An empty slot carries no owner and is skipped.
			{Position: 9},
		},
	}

	result, err := s.MergeGalaxyScan(ctx, scan)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Created)
	assert.Equal(t, int64(1), result.Skipped)
	assert.Equal(t, int64(0), result.Deleted)

	// The scan refreshed the position-0 marker for the system.
	marker, err := s.MarkerTimestamp(ctx, 1, 42)
	require.NoError(t, err)
	require.NotNil(t, marker)
	require.NotNil(t, marker.LastScanAt)

	planets, err := s.GetSystem(ctx, 1, 42)
	require.NoError(t, err)
	require.Len(t, planets, 3) // two planets plus the moon

	p, err := s.GetByCoordinates(ctx, coords.New(1, 42, 3), TypePlanet)
	require.NoError(t, err)
	require.NotNil(t, p.PlayerID)
	assert.Equal(t, int64(100), *p.PlayerID)
	require.NotNil(t, p.Name)
	assert.Equal(t, "Homeworld", *p.Name)

	moon, err := s.GetByCoordinates(ctx, coords.New(1, 42, 5), TypeMoon)
	require.NoError(t, err)
	require.NotNil(t, moon.Name)
	assert.Equal(t, "Outpost Moon", *moon.Name)
}

func TestMergeGalaxyScanIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)
	ctx := context.Background()

	scan := GalaxyScan{
		Galaxy: 2,
		System: 10,
		Planets: []ScanEntry{
			{Position: 4, PlayerID: ptrInt64(300), PlayerName: ptrString("Pike"), PlanetName: ptrString("Base")},
		},
	}

	_, err := s.MergeGalaxyScan(ctx, scan)
	require.NoError(t, err)
	_, err = s.MergeGalaxyScan(ctx, scan)
	require.NoError(t, err)

	planets, err := s.GetSystem(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, planets, 1)
}

func TestMergeGalaxyScanOwnershipChanges(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)
	ctx := context.Background()

	first := GalaxyScan{
		Galaxy: 3,
		System: 20,
		Planets: []ScanEntry{
			{Position: 6, PlayerID: ptrInt64(1), PlayerName: ptrString("Old Owner"), PlanetName: ptrString("Contested"), SourcePlanetID: ptrInt64(9001)},
		},
	}
	_, err := s.MergeGalaxyScan(ctx, first)
	require.NoError(t, err)

	// A later scan reports a new owner but no source id: ownership follows
	// the newest scan while the remembered source id survives the null.
	second := GalaxyScan{
		Galaxy: 3,
		System: 20,
		Planets: []ScanEntry{
			{Position: 6, PlayerID: ptrInt64(2), PlayerName: ptrString("New Owner"), PlanetName: ptrString("Contested")},
		},
	}
	_, err = s.MergeGalaxyScan(ctx, second)
	require.NoError(t, err)

	p, err := s.GetByCoordinates(ctx, coords.New(3, 20, 6), TypePlanet)
	require.NoError(t, err)
	require.NotNil(t, p.PlayerID)
	assert.Equal(t, int64(2), *p.PlayerID)
	require.NotNil(t, p.SourcePlanetID)
	assert.Equal(t, int64(9001), *p.SourcePlanetID)
}

func TestMergeGalaxyScanDestroyed(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)
	ctx := context.Background()

	setup := GalaxyScan{
		Galaxy: 4,
		System: 30,
		Planets: []ScanEntry{
			{Position: 8, PlayerID: ptrInt64(50), PlayerName: ptrString("Doomed"), PlanetName: ptrString("Target")},
		},
	}
	_, err := s.MergeGalaxyScan(ctx, setup)
	require.NoError(t, err)

	destruction := GalaxyScan{
		Galaxy:    4,
		System:    30,
		Destroyed: []DestroyedEntry{{Position: 8, Type: "PLANET"}},
	}
	result, err := s.MergeGalaxyScan(ctx, destruction)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Deleted)

	// Soft-deleted: gone from the system listing, still directly readable.
	planets, err := s.GetSystem(ctx, 4, 30)
	require.NoError(t, err)
	assert.Empty(t, planets)

	p, err := s.GetByCoordinates(ctx, coords.New(4, 30, 8), TypePlanet)
	require.NoError(t, err)
	assert.True(t, p.IsDeleted())
}

func TestMergeDetailedObservationDisjointFromScan(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)
	ctx := context.Background()

	scan := GalaxyScan{
		Galaxy: 5,
		System: 40,
		Planets: []ScanEntry{
			{Position: 2, PlayerID: ptrInt64(70), PlayerName: ptrString("Builder"), PlanetName: ptrString("Forge")},
		},
	}
	_, err := s.MergeGalaxyScan(ctx, scan)
	require.NoError(t, err)

	c := coords.New(5, 40, 2)
	obs := DetailedObservation{
		Buildings: ptrString(`{"metal_mine":20}`),
		ProdH:     ptrInt64(3600),
	}
	require.NoError(t, s.MergeDetailedObservation(ctx, c, TypePlanet, obs))

	// A later observation with only fleet data leaves the buildings alone.
	require.NoError(t, s.MergeDetailedObservation(ctx, c, TypePlanet, DetailedObservation{
		Fleet: ptrString(`{"small_cargo":5}`),
	}))

	p, err := s.GetByCoordinates(ctx, c, TypePlanet)
	require.NoError(t, err)
	require.NotNil(t, p.Buildings)
	assert.JSONEq(t, `{"metal_mine":20}`, *p.Buildings)
	require.NotNil(t, p.Fleet)
	assert.JSONEq(t, `{"small_cargo":5}`, *p.Fleet)
	require.NotNil(t, p.ProdH)
	assert.Equal(t, int64(3600), *p.ProdH)

	// A re-scan replaces ownership data but keeps the detail fields.
	_, err = s.MergeGalaxyScan(ctx, scan)
	require.NoError(t, err)

	p, err = s.GetByCoordinates(ctx, c, TypePlanet)
	require.NoError(t, err)
	require.NotNil(t, p.Buildings)
	assert.JSONEq(t, `{"metal_mine":20}`, *p.Buildings)
}

func TestMergeDetailedObservationUnknownPlanet(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "planets", "players", "alliances")

	s := newTestService(t, db)

	err := s.MergeDetailedObservation(context.Background(), coords.New(9, 99, 9), TypePlanet, DetailedObservation{
		Buildings: ptrString(`{}`),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}
