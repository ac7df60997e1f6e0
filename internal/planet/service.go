package planet

import (
	"context"
	"fmt"
	"log/slog"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/player"
	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/redis"
)

const (
	markerNameScanned = "SCANNED"
	markerNameEmpty   = "EMPTY"
)

type Service struct {
	repo     *Repository
	players  *player.Service
	alliance *alliance.Service
	cache    *redis.Client
	logger   *slog.Logger
}

func NewService(repo *Repository, players *player.Service, allianceService *alliance.Service, cache *redis.Client, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		repo:     repo,
		players:  players,
		alliance: allianceService,
		cache:    cache,
		logger:   logger,
	}
}

// MergeGalaxyScan folds a full system scan into the registry: the scan marker
// is refreshed first, destroyed positions are soft-deleted, and each sighted
// planet (and moon) is upserted with last-scan-wins ownership. Positions
// without a known owner are skipped; the scan carries nothing to store yet.
func (s *Service) MergeGalaxyScan(ctx context.Context, scan GalaxyScan) (*ScanResult, error) {
	logger := s.logger.With(
		"component", "planet_service",
		"operation", "merge_galaxy_scan",
		"galaxy", scan.Galaxy,
		"system", scan.System,
	)
	logger.Debug("Merging galaxy scan", "planets", len(scan.Planets), "destroyed", len(scan.Destroyed))

	if scan.Galaxy <= 0 || scan.System <= 0 {
		return nil, errors.Validationf("invalid system %d:%d", scan.Galaxy, scan.System)
	}

	result := &ScanResult{}

	// The marker is refreshed even for an empty scan: "nothing there" is
	// still a fresh observation of the system.
	markerName := markerNameScanned
	if len(scan.Planets) == 0 && len(scan.Destroyed) == 0 {
		markerName = markerNameEmpty
	}
	marker := coords.New(scan.Galaxy, scan.System, 0)
	if err := s.repo.UpsertFromScan(ctx, &markerName, nil, marker.String(), scan.Galaxy, scan.System, 0, TypePlanet, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to refresh scan marker: %w", err)
	}

	for _, d := range scan.Destroyed {
		position := coords.New(scan.Galaxy, scan.System, d.Position)
		planetType := Type(d.Type)
		if planetType != TypePlanet && planetType != TypeMoon {
			return nil, errors.Validationf("invalid planet type %q", d.Type)
		}
		if err := s.repo.MarkDeleted(ctx, position.String(), planetType, nil); err != nil {
			return nil, err
		}
		result.Deleted++
	}

	for _, entry := range scan.Planets {
		if entry.PlayerID == nil || *entry.PlayerID <= 0 {
			result.Skipped++
			continue
		}
		playerID := *entry.PlayerID

		playerName := "Unknown"
		if entry.PlayerName != nil {
			playerName = *entry.PlayerName
		}
		if err := s.players.Ensure(ctx, playerID, playerName); err != nil {
			return nil, err
		}

		if entry.AllianceID != nil && entry.AllianceTag != nil {
			if err := s.alliance.Ensure(ctx, *entry.AllianceID, "", *entry.AllianceTag); err != nil {
				return nil, err
			}
			if err := s.players.UpdateAlliance(ctx, playerID, *entry.AllianceID); err != nil {
				return nil, err
			}
		}

		position := coords.New(scan.Galaxy, scan.System, entry.Position)
		if err := s.repo.UpsertFromScan(ctx, entry.PlanetName, &playerID, position.String(), scan.Galaxy, scan.System, entry.Position, TypePlanet, entry.SourcePlanetID, nil); err != nil {
			return nil, err
		}
		result.Created++

		if entry.HasMoon {
			if err := s.repo.UpsertFromScan(ctx, entry.MoonName, &playerID, position.String(), scan.Galaxy, scan.System, entry.Position, TypeMoon, entry.SourceMoonID, nil); err != nil {
				return nil, err
			}
		}
	}

	s.cache.InvalidateScanStatus(ctx)

	logger.Info("Galaxy scan merged",
		"created", result.Created,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"marker", markerName,
	)
	return result, nil
}

// MergeDetailedObservation updates the detail fields of a known planet. The
// field set is disjoint from what galaxy scans touch: ownership and name stay
// as the last scan left them.
func (s *Service) MergeDetailedObservation(ctx context.Context, c coords.Coordinates, planetType Type, obs DetailedObservation) error {
	logger := s.logger.With(
		"component", "planet_service",
		"operation", "merge_detailed_observation",
		"coordinates", c.String(),
		"type", planetType,
	)
	logger.Debug("Merging detailed observation")

	if planetType != TypePlanet && planetType != TypeMoon {
		return errors.Validationf("invalid planet type %q", planetType)
	}

	coordinates := c.String()

	if obs.Buildings != nil {
		if err := s.repo.UpdateBuildings(ctx, coordinates, planetType, *obs.Buildings); err != nil {
			return err
		}
	}
	if obs.Fleet != nil {
		if err := s.repo.UpdateFleet(ctx, coordinates, planetType, *obs.Fleet); err != nil {
			return err
		}
	}
	if obs.Defense != nil {
		if err := s.repo.UpdateDefense(ctx, coordinates, planetType, *obs.Defense); err != nil {
			return err
		}
	}
	if obs.Resources != nil {
		if err := s.repo.UpdateResources(ctx, coordinates, planetType, *obs.Resources); err != nil {
			return err
		}
	}
	if obs.ProdH != nil {
		if err := s.repo.UpdateProduction(ctx, coordinates, planetType, *obs.ProdH); err != nil {
			return err
		}
	}

	s.cache.InvalidateScanStatus(ctx)
	return nil
}

func (s *Service) MarkDeleted(ctx context.Context, c coords.Coordinates, planetType Type) error {
	if err := s.repo.MarkDeleted(ctx, c.String(), planetType, nil); err != nil {
		return err
	}
	s.cache.InvalidateScanStatus(ctx)
	return nil
}

func (s *Service) GetByCoordinates(ctx context.Context, c coords.Coordinates, planetType Type) (*Planet, error) {
	return s.repo.GetByCoordinates(ctx, c.String(), planetType)
}

func (s *Service) GetSystem(ctx context.Context, galaxy, system int64) ([]Planet, error) {
	return s.repo.GetSystem(ctx, galaxy, system)
}

func (s *Service) MarkerTimestamp(ctx context.Context, galaxy, system int64) (*SystemScan, error) {
	return s.repo.MarkerTimestamp(ctx, galaxy, system)
}
