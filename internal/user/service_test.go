package user

import (
	"context"
	"log/slog"
	"testing"

	"alliance-tracker/internal/shared/database/dbtest"
	"alliance-tracker/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByAPIKeyEmpty(t *testing.T) {
	s := NewService(nil, slog.Default())

	for _, key := range []string{"", "   ", "\t\n"} {
		_, err := s.ResolveByAPIKey(context.Background(), key)
		require.Error(t, err)
		assert.Equal(t, errors.ErrorTypeUnauthorized, errors.GetType(err))
	}
}

func TestCreateValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	_, err := s.Create(context.Background(), "short", nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	// Whitespace padding does not count toward the minimum length.
	_, err = s.Create(context.Background(), "   short        ", nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestUpdateRoleValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	err := s.UpdateRole(context.Background(), 1, Role("superuser"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestUpdateLanguageValidation(t *testing.T) {
	s := NewService(nil, slog.Default())

	err := s.UpdateLanguage(context.Background(), 1, "  ")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey(""))
	assert.Equal(t, "****", MaskAPIKey("12345678"))
	assert.Equal(t, "abcd...wxyz", MaskAPIKey("abcdefghijklstuvwxyz"))
}

func TestResolveByAPIKeyTrimsInput(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "users", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	id, err := s.Create(ctx, "tracker-key-0123456789", nil, nil)
	require.NoError(t, err)

	resolved, err := s.ResolveByAPIKey(ctx, "  tracker-key-0123456789\n")
	require.NoError(t, err)
	assert.Equal(t, id, resolved.ID)
	assert.Equal(t, RoleUser, resolved.Role)

	_, err = s.ResolveByAPIKey(ctx, "tracker-key-unknown000")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestCreateDuplicateKey(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Truncate(t, db, "users", "players", "alliances")

	repo := NewRepository(db, slog.Default())
	s := NewService(repo, slog.Default())
	ctx := context.Background()

	_, err := s.Create(ctx, "tracker-key-0123456789", nil, nil)
	require.NoError(t, err)

	_, err = s.Create(ctx, "tracker-key-0123456789", nil, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))
}
