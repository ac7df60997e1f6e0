package score

import (
	"context"
	"log/slog"

	"alliance-tracker/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing score service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Append records a snapshot. Duplicate (player, recorded_at) submissions are
// rejected rather than merged.
func (s *Service) Append(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.PlayerID <= 0 {
		return errors.Validationf("invalid player id %d", snapshot.PlayerID)
	}
	if snapshot.RecordedAt.IsZero() {
		return errors.Validation("recorded_at is required")
	}
	return s.repo.Append(ctx, snapshot)
}

func (s *Service) GetAllianceChart(ctx context.Context, allianceID int64) ([]Snapshot, error) {
	return s.repo.GetAllianceChart(ctx, allianceID)
}

func (s *Service) GetAllianceRecentChart(ctx context.Context, allianceID int64) ([]Snapshot, error) {
	return s.repo.GetAllianceRecentChart(ctx, allianceID)
}

func (s *Service) GetPlayerChart(ctx context.Context, playerID int64) ([]Snapshot, error) {
	return s.repo.GetPlayerChart(ctx, playerID)
}
