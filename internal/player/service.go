package player

import (
	"context"
	"log/slog"
	"time"

	"alliance-tracker/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Ensure(ctx context.Context, id int64, name string) error {
	if id <= 0 {
		return errors.Validationf("invalid player id %d", id)
	}
	return s.repo.Ensure(ctx, id, name, nil)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Player, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAlliance(ctx context.Context, playerID, allianceID int64) error {
	return s.repo.UpdateAlliance(ctx, playerID, allianceID, nil)
}

func (s *Service) MarkDeleted(ctx context.Context, id int64) error {
	return s.repo.MarkDeleted(ctx, id)
}

func (s *Service) UpdateResearch(ctx context.Context, playerID int64, researchJSON string) error {
	if researchJSON == "" {
		return errors.Validation("research payload is required")
	}
	return s.repo.UpdateResearch(ctx, playerID, researchJSON)
}

// IngestStats merges a statistics-page sync. recordedAt defaults to now so a
// sync without an explicit timestamp still lands as a distinct snapshot.
func (s *Service) IngestStats(ctx context.Context, stats []Stats, recordedAt time.Time) (int64, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	return s.repo.UpsertStats(ctx, stats, recordedAt)
}
