package user

import (
	"context"
	"log/slog"
	"strings"

	"alliance-tracker/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ResolveByAPIKey is the boundary identity lookup. Keys arrive from headers
// and copy-paste, so they are trimmed before the exact match.
func (s *Service) ResolveByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.Unauthorized("api key is required")
	}
	return s.repo.GetByAPIKey(ctx, apiKey)
}

func (s *Service) List(ctx context.Context) ([]ListEntry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, apiKey string, playerID, allianceID *int64) (int64, error) {
	apiKey = strings.TrimSpace(apiKey)
	if len(apiKey) < 16 {
		return 0, errors.Validation("api key must be at least 16 characters")
	}
	return s.repo.Create(ctx, apiKey, playerID, allianceID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, id int64, role Role) error {
	if role != RoleAdmin && role != RoleUser {
		return errors.Validationf("invalid role %q", role)
	}
	return s.repo.UpdateRole(ctx, id, role)
}

func (s *Service) UpdateLanguage(ctx context.Context, id int64, language string) error {
	language = strings.TrimSpace(language)
	if language == "" {
		return errors.Validation("language is required")
	}
	return s.repo.UpdateLanguage(ctx, id, language)
}

func (s *Service) TouchActivity(ctx context.Context, id int64) {
	// Best effort; a failed touch must not fail the request.
	_ = s.repo.UpdateActivity(ctx, id)
}
