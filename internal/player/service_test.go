package player

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt64(v int64) *int64 { return &v }

func TestIngestStatsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	s := NewService(NewRepository(db, slog.Default()), slog.Default())
	ctx := context.Background()

	recordedAt := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	batch := []Stats{
		{ID: 1, Name: "Alpha", ScoreTotal: 1000, Rank: ptrInt64(1)},
		{ID: 2, Name: "Beta", ScoreTotal: 900, Rank: ptrInt64(2)},
	}

	inserted, err := s.IngestStats(ctx, batch, recordedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// The same batch at the same timestamp adds no new snapshots.
	inserted, err = s.IngestStats(ctx, batch, recordedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	p, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, int64(1000), p.ScoreTotal)
}

func TestIngestStatsKeepsAllianceOnNull(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	s := NewService(NewRepository(db, slog.Default()), slog.Default())
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO alliances (id, name, tag) VALUES (3, 'Romulan Star', 'RSE')`)
	require.NoError(t, err)

	t1 := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	_, err = s.IngestStats(ctx, []Stats{
		{ID: 5, Name: "Gamma", AllianceID: ptrInt64(3), ScoreTotal: 500},
	}, t1)
	require.NoError(t, err)

	// The stats page sometimes omits the alliance; a null must not wipe
	// the known membership.
	t2 := t1.Add(time.Hour)
	_, err = s.IngestStats(ctx, []Stats{
		{ID: 5, Name: "Gamma", ScoreTotal: 600},
	}, t2)
	require.NoError(t, err)

	p, err := s.GetByID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, p.AllianceID)
	assert.Equal(t, int64(3), *p.AllianceID)
	assert.Equal(t, int64(600), p.ScoreTotal)
}

func TestMarkDeletedNotFound(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "player_scores", "players", "alliances")

	s := NewService(NewRepository(db, slog.Default()), slog.Default())

	err := s.MarkDeleted(context.Background(), 424242)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestEnsureValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	err := s.Ensure(context.Background(), 0, "Nobody")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}
