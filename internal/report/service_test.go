package report

import (
	"context"
	"log/slog"
	"testing"

	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSpyReportValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	tests := []struct {
		name   string
		report SpyReport
	}{
		{name: "missing external id", report: SpyReport{Galaxy: 1, System: 2, Planet: 3}},
		{name: "negative external id", report: SpyReport{ExternalID: -5, Galaxy: 1, System: 2, Planet: 3}},
		{name: "zero galaxy", report: SpyReport{ExternalID: 10, System: 2, Planet: 3}},
		{name: "zero system", report: SpyReport{ExternalID: 10, Galaxy: 1, Planet: 3}},
		{name: "negative planet", report: SpyReport{ExternalID: 10, Galaxy: 1, System: 2, Planet: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.MergeSpyReport(context.Background(), &tt.report)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
		})
	}
}

func TestMergeRecycleReportValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	err := s.MergeRecycleReport(context.Background(), &RecycleReport{Galaxy: 1, System: 2, Planet: 3})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestMergeBattleReportValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	err := s.MergeBattleReport(context.Background(), &BattleReport{ExternalID: 7, Planet: 3})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestSpyReportUpsertOverwritesObservation(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "spy_reports", "messages", "users", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	resources := `{"metal":100}`
	first := SpyReport{ExternalID: 501, Galaxy: 1, System: 2, Planet: 3, Resources: &resources}
	require.NoError(t, s.MergeSpyReport(ctx, &first))

	updated := `{"metal":150}`
	second := SpyReport{ExternalID: 501, Galaxy: 1, System: 2, Planet: 3, Resources: &updated}
	require.NoError(t, s.MergeSpyReport(ctx, &second))

	reports, err := s.GetSpyByCoordinates(ctx, 1, 2, 3, "PLANET", 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].Resources)
	assert.JSONEq(t, updated, *reports[0].Resources)
	assert.Equal(t, "1:2:3", reports[0].Coordinates)
}

func TestRecycleReportUpsertOverwritesObservation(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "recycle_reports", "users", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	first := RecycleReport{ExternalID: 601, Galaxy: 1, System: 2, Planet: 3, Metal: 100, Crystal: 50, MetalTF: 500, CrystalTF: 250}
	require.NoError(t, s.MergeRecycleReport(ctx, &first))

	second := RecycleReport{ExternalID: 601, Galaxy: 1, System: 2, Planet: 3, Metal: 140, Crystal: 70, MetalTF: 400, CrystalTF: 200}
	require.NoError(t, s.MergeRecycleReport(ctx, &second))

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM recycle_reports`).Scan(&count))
	assert.Equal(t, int64(1), count)

	var coordinates string
	var metal, crystal, metalTF, crystalTF int64
	row := db.QueryRow(`
		SELECT coordinates, metal, crystal, metal_tf, crystal_tf
		FROM recycle_reports
		WHERE external_id = $1
	`, int64(601))
	require.NoError(t, row.Scan(&coordinates, &metal, &crystal, &metalTF, &crystalTF))
	assert.Equal(t, "1:2:3", coordinates)
	assert.Equal(t, int64(140), metal)
	assert.Equal(t, int64(70), crystal)
	assert.Equal(t, int64(400), metalTF)
	assert.Equal(t, int64(200), crystalTF)
}

func TestBattleReportUpsertOverwritesObservation(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "battle_reports", "users", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	first := BattleReport{ExternalID: 701, Galaxy: 4, System: 5, Planet: 6, AttackerLost: 1000, DefenderLost: 2000, Metal: 300, Crystal: 150}
	require.NoError(t, s.MergeBattleReport(ctx, &first))

	second := BattleReport{ExternalID: 701, Galaxy: 4, System: 5, Planet: 6, AttackerLost: 1200, DefenderLost: 1800, Metal: 350, Crystal: 175}
	require.NoError(t, s.MergeBattleReport(ctx, &second))

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM battle_reports`).Scan(&count))
	assert.Equal(t, int64(1), count)

	var coordinates string
	var attackerLost, defenderLost, metal, crystal int64
	row := db.QueryRow(`
		SELECT coordinates, attacker_lost, defender_lost, metal, crystal
		FROM battle_reports
		WHERE external_id = $1
	`, int64(701))
	require.NoError(t, row.Scan(&coordinates, &attackerLost, &defenderLost, &metal, &crystal))
	assert.Equal(t, "4:5:6", coordinates)
	assert.Equal(t, int64(1200), attackerLost)
	assert.Equal(t, int64(1800), defenderLost)
	assert.Equal(t, int64(350), metal)
	assert.Equal(t, int64(175), crystal)
}

func TestCheckDuplicates(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "messages")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	existing, newIDs, err := s.CheckDuplicates(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, existing)
	assert.ElementsMatch(t, []int64{1, 2, 3}, newIDs)

	existing, newIDs, err = s.CheckDuplicates(ctx, []int64{2, 4})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2}, existing)
	assert.ElementsMatch(t, []int64{4}, newIDs)

	// Re-submitting the full original batch reports everything as known.
	existing, newIDs, err = s.CheckDuplicates(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, existing)
	assert.Empty(t, newIDs)
}

func TestCheckDuplicatesEmptyBatch(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "messages")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())

	existing, newIDs, err := s.CheckDuplicates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
	assert.Empty(t, newIDs)
}
