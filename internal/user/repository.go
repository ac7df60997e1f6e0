package user

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
	logger.Debug("Initializing user repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, api_key, player_id, alliance_id, language, role, last_activity_at, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.APIKey,
		&user.PlayerID,
		&user.AllianceID,
		&user.Language,
		&user.Role,
		&user.LastActivityAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPIKey resolves a user by trimmed exact key match.
func (r *Repository) GetByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "get_by_api_key",
		"api_key_masked", MaskAPIKey(apiKey),
	)
	logger.Debug("Getting user by API key")

	query := `SELECT ` + userColumns + ` FROM users WHERE api_key = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, apiKey))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no user for the given api key")
	}
	if err != nil {
		logger.Error("Failed to get user by API key", "error", err)
		return nil, fmt.Errorf("failed to get user by api key: %w", err)
	}

	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "get_by_id",
		"user_id", id,
	)
	logger.Debug("Getting user by ID")

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("user %d not found", id)
	}
	if err != nil {
		logger.Error("Failed to get user", "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return user, nil
}

// List returns all users joined with their player and alliance names.
func (r *Repository) List(ctx context.Context) ([]ListEntry, error) {
	logger := r.logger.With("component", "user_repository", "operation", "list")
	logger.Debug("Listing users")

	query := `
		SELECT u.id, u.player_id, u.alliance_id, u.language, u.role,
		       u.last_activity_at, u.created_at, u.updated_at,
		       p.name AS player_name, a.name AS alliance_name
		FROM users u
		LEFT JOIN players p ON u.player_id = p.id
		LEFT JOIN alliances a ON u.alliance_id = a.id
		ORDER BY u.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query users", "error", err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var entries []ListEntry
	for rows.Next() {
		var entry ListEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.AllianceID,
			&entry.Language,
			&entry.Role,
			&entry.LastActivityAt,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.PlayerName,
			&entry.AllianceName,
		)
		if err != nil {
			logger.Error("Failed to scan user row", "error", err)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	logger.Debug("Users listed", "count", len(entries))
	return entries, nil
}

func (r *Repository) Create(ctx context.Context, apiKey string, playerID, allianceID *int64) (int64, error) {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "create",
		"api_key_masked", MaskAPIKey(apiKey),
	)
	logger.Debug("Creating user")

	query := `
		INSERT INTO users (api_key, player_id, alliance_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, apiKey, playerID, allianceID).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, errors.Conflictf("a user with this api key already exists")
		}
		if database.IsForeignKeyViolation(err) {
			return 0, errors.WrapConflict("user references unknown player or alliance", err)
		}
		logger.Error("Failed to create user", "error", err)
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created", "user_id", id)
	return id, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "delete",
		"user_id", id,
	)
	logger.Debug("Deleting user")

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete user", "error", err)
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("user %d not found", id)
	}

	logger.Info("User deleted", "user_id", id)
	return nil
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role Role) error {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "update_role",
		"user_id", id,
		"role", role,
	)
	logger.Debug("Updating user role")

	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		logger.Error("Failed to update user role", "error", err)
		return fmt.Errorf("failed to update role for user %d: %w", id, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("user %d not found", id)
	}

	return nil
}

func (r *Repository) UpdateLanguage(ctx context.Context, id int64, language string) error {
	logger := r.logger.With(
		"component", "user_repository",
		"operation", "update_language",
		"user_id", id,
		"language", language,
	)
	logger.Debug("Updating user language")

	result, err := r.db.ExecContext(ctx, `UPDATE users SET language = $1, updated_at = NOW() WHERE id = $2`, language, id)
	if err != nil {
		logger.Error("Failed to update user language", "error", err)
		return fmt.Errorf("failed to update language for user %d: %w", id, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFoundf("user %d not found", id)
	}

	return nil
}

// UpdateActivity touches the activity timestamp; called on every
// authenticated request so staleness is best effort, not transactional.
func (r *Repository) UpdateActivity(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_activity_at = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		r.logger.Warn("Failed to update user activity", "user_id", id, "error", err)
		return fmt.Errorf("failed to update activity for user %d: %w", id, err)
	}

	return nil
}
