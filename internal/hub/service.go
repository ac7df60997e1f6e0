package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"alliance-tracker/internal/shared/redis"
)

// scanStatusTTL caps staleness if an invalidation is ever lost; writers
// delete the key on every planet write.
const scanStatusTTL = 10 * time.Minute

type Service struct {
	repo   *Repository
	cache  *redis.Client
	logger *slog.Logger
}

func NewService(repo *Repository, cache *redis.Client, logger *slog.Logger) *Service {
	logger.Debug("Initializing hub service")

	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) GetAlliancePlanets(ctx context.Context, allianceID int64) ([]AlliancePlanet, error) {
	return s.repo.GetAlliancePlanets(ctx, allianceID)
}

func (s *Service) GetFleetRoster(ctx context.Context, allianceID int64) ([]FleetRosterRow, error) {
	return s.repo.GetFleetRoster(ctx, allianceID)
}

func (s *Service) GetBuildingsRoster(ctx context.Context, allianceID int64) ([]BuildingsRosterRow, error) {
	return s.repo.GetBuildingsRoster(ctx, allianceID)
}

func (s *Service) GetResearchRoster(ctx context.Context, allianceID int64) ([]ResearchRosterRow, error) {
	return s.repo.GetResearchRoster(ctx, allianceID)
}

// GetScanStatus serves the scan freshness view, via Redis when available.
func (s *Service) GetScanStatus(ctx context.Context) ([]SystemScanStatus, error) {
	logger := s.logger.With("component", "hub_service", "operation", "get_scan_status")

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, redis.ScanStatusKey).Bytes()
		if err == nil {
			var status []SystemScanStatus
			if err := json.Unmarshal(cached, &status); err == nil {
				logger.Debug("Scan status served from cache", "count", len(status))
				return status, nil
			}
			logger.Warn("Discarding unreadable cached scan status", "error", err)
		}
	}

	status, err := s.repo.GetScanStatus(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(status); err == nil {
			if err := s.cache.Set(ctx, redis.ScanStatusKey, payload, scanStatusTTL).Err(); err != nil {
				logger.Warn("Failed to cache scan status", "error", err)
			}
		}
	}

	return status, nil
}
