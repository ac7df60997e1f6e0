package report

import (
	"context"
	"log/slog"

	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing report service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func validateIdentity(externalID, galaxy, system, planet int64) error {
	if externalID <= 0 {
		return errors.Validationf("invalid external id %d", externalID)
	}
	if galaxy <= 0 || system <= 0 || planet < 0 {
		return errors.Validationf("invalid position %d:%d:%d", galaxy, system, planet)
	}
	return nil
}

func (s *Service) MergeSpyReport(ctx context.Context, report *SpyReport) error {
	if err := validateIdentity(report.ExternalID, report.Galaxy, report.System, report.Planet); err != nil {
		return err
	}
	if report.Type == "" {
		report.Type = "PLANET"
	}
	report.Coordinates = coords.New(report.Galaxy, report.System, report.Planet).String()
	return s.repo.UpsertSpy(ctx, report)
}

func (s *Service) MergeRecycleReport(ctx context.Context, report *RecycleReport) error {
	if err := validateIdentity(report.ExternalID, report.Galaxy, report.System, report.Planet); err != nil {
		return err
	}
	report.Coordinates = coords.New(report.Galaxy, report.System, report.Planet).String()
	return s.repo.UpsertRecycle(ctx, report)
}

func (s *Service) MergeBattleReport(ctx context.Context, report *BattleReport) error {
	if err := validateIdentity(report.ExternalID, report.Galaxy, report.System, report.Planet); err != nil {
		return err
	}
	if report.Type == "" {
		report.Type = "PLANET"
	}
	report.Coordinates = coords.New(report.Galaxy, report.System, report.Planet).String()
	return s.repo.UpsertBattle(ctx, report)
}

// CheckDuplicates splits a candidate batch into already-known and new ids,
// recording the new ones so the next batch sees them. The check is an
// optimization only: all merge operations stay safe to call for an id that
// slipped in between check and ingest.
func (s *Service) CheckDuplicates(ctx context.Context, ids []int64) (existing, newIDs []int64, err error) {
	logger := s.logger.With(
		"component", "report_service",
		"operation", "check_duplicates",
		"count", len(ids),
	)
	logger.Debug("Checking duplicate message IDs")

	existing, err = s.repo.ExistingMessageIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	newIDs = []int64{}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			newIDs = append(newIDs, id)
		}
	}

	if len(newIDs) > 0 {
		if _, err := s.repo.RecordMessageIDs(ctx, newIDs); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug("Duplicate check complete", "existing", len(existing), "new", len(newIDs))
	return existing, newIDs, nil
}

func (s *Service) GetSpyByCoordinates(ctx context.Context, galaxy, system, planet int64, planetType string, limit int64) ([]SpyReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if planetType == "" {
		planetType = "PLANET"
	}
	return s.repo.GetSpyByCoordinates(ctx, galaxy, system, planet, planetType, limit)
}

func (s *Service) GetSpyBySystem(ctx context.Context, galaxy, system int64) ([]SpyReport, error) {
	return s.repo.GetSpyBySystem(ctx, galaxy, system)
}

func (s *Service) GetSpyHistory(ctx context.Context, galaxy, system, planet int64, planetType string, limit int64) ([]SpyReportHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if planetType == "" {
		planetType = "PLANET"
	}
	return s.repo.GetSpyHistory(ctx, galaxy, system, planet, planetType, limit)
}
