package score

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"alliance-tracker/internal/player"
	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendValidation(t *testing.T) {
	s := NewService(nil, slog.Default())
	ctx := context.Background()

	err := s.Append(ctx, &Snapshot{PlayerID: 0, RecordedAt: time.Now()})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	err = s.Append(ctx, &Snapshot{PlayerID: 42})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestAppendRejectsDuplicateTimestamp(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	playerRepo := player.NewRepository(db, slog.Default())
	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	require.NoError(t, playerRepo.Ensure(ctx, 42, "Tester", nil))

	recordedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := Snapshot{PlayerID: 42, ScoreTotal: 1000, RecordedAt: recordedAt}
	require.NoError(t, s.Append(ctx, &first))

	// Same player, same timestamp, different score: the history is
	// append-only, so the second write is rejected outright.
	second := Snapshot{PlayerID: 42, ScoreTotal: 2000, RecordedAt: recordedAt}
	err := s.Append(ctx, &second)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	chart, err := s.GetPlayerChart(ctx, 42)
	require.NoError(t, err)
	require.Len(t, chart, 1)
	assert.Equal(t, int64(1000), chart[0].ScoreTotal)
}

func TestAppendUnknownPlayer(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())

	err := s.Append(context.Background(), &Snapshot{PlayerID: 999, RecordedAt: time.Now()})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))
}

func TestAllianceChartExcludesDeletedPlayers(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	playerRepo := player.NewRepository(db, slog.Default())
	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO alliances (id, name, tag) VALUES (7, 'Void', 'VOID')`)
	require.NoError(t, err)

	require.NoError(t, playerRepo.Ensure(ctx, 1, "Active", nil))
	require.NoError(t, playerRepo.Ensure(ctx, 2, "Gone", nil))
	require.NoError(t, playerRepo.UpdateAlliance(ctx, 1, 7, nil))
	require.NoError(t, playerRepo.UpdateAlliance(ctx, 2, 7, nil))

	recordedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 1, ScoreTotal: 100, RecordedAt: recordedAt}))
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 2, ScoreTotal: 200, RecordedAt: recordedAt}))

	require.NoError(t, playerRepo.MarkDeleted(ctx, 2))

	chart, err := s.GetAllianceChart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, chart, 1)
	assert.Equal(t, int64(1), chart[0].PlayerID)
}

func TestAllianceChartOrderings(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	playerRepo := player.NewRepository(db, slog.Default())
	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO alliances (id, name, tag) VALUES (7, 'Void', 'VOID')`)
	require.NoError(t, err)

	require.NoError(t, playerRepo.Ensure(ctx, 1, "First", nil))
	require.NoError(t, playerRepo.Ensure(ctx, 2, "Second", nil))
	require.NoError(t, playerRepo.UpdateAlliance(ctx, 1, 7, nil))
	require.NoError(t, playerRepo.UpdateAlliance(ctx, 2, 7, nil))

	// The recent chart window is anchored on the database clock, so the
	// timestamps are derived from now rather than fixed dates.
	now := time.Now().UTC().Truncate(time.Second)
	stale := now.Add(-90 * 24 * time.Hour)
	old := now.Add(-10 * 24 * time.Hour)
	fresh := now.Add(-5 * 24 * time.Hour)

	// Appended out of order on purpose.
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 2, ScoreTotal: 400, RecordedAt: fresh}))
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 1, ScoreTotal: 100, RecordedAt: stale}))
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 1, ScoreTotal: 300, RecordedAt: fresh}))
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 1, ScoreTotal: 200, RecordedAt: old}))
	require.NoError(t, s.Append(ctx, &Snapshot{PlayerID: 2, ScoreTotal: 350, RecordedAt: old}))

	// Full chart: ascending by player then recorded_at, stale rows included.
	chart, err := s.GetAllianceChart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, chart, 5)
	for i, want := range []struct {
		playerID int64
		score    int64
	}{
		{1, 100}, {1, 200}, {1, 300}, {2, 350}, {2, 400},
	} {
		assert.Equal(t, want.playerID, chart[i].PlayerID)
		assert.Equal(t, want.score, chart[i].ScoreTotal)
	}

	// Recent chart: newest first, snapshots beyond the window dropped.
	recent, err := s.GetAllianceRecentChart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	for i, want := range []struct {
		playerID int64
		score    int64
	}{
		{1, 300}, {2, 400}, {1, 200}, {2, 350},
	} {
		assert.Equal(t, want.playerID, recent[i].PlayerID)
		assert.Equal(t, want.score, recent[i].ScoreTotal)
	}
	for _, snap := range recent {
		assert.True(t, snap.RecordedAt.After(stale), "stale snapshot leaked into recent chart")
	}
}
