package alliance

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
	logger.Debug("Initializing alliance service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Ensure is the idempotent create-or-retag operation. Scans often only know
// the tag; in that case the tag doubles as the initial name.
func (s *Service) Ensure(ctx context.Context, id int64, name, tag string) error {
	tag = strings.TrimSpace(tag)
	name = strings.TrimSpace(name)

	if id <= 0 {
		return errors.Validationf("invalid alliance id %d", id)
	}
	if tag == "" {
		return errors.Validation("alliance tag is required")
	}
	if name == "" {
		name = tag
	}

	return s.repo.Ensure(ctx, id, name, tag, nil)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Alliance, error) {
	return s.repo.GetByID(ctx, id)
}
