package galaxy

import (
	"context"
	"log/slog"
	"time"

	"alliance-tracker/internal/planet"
	"alliance-tracker/internal/report"
	"alliance-tracker/internal/shared/errors"
)

// SystemView is the composed read of one system: its live planets, the spy
// reports covering them and when the system was last fully scanned.
type SystemView struct {
	Planets    []planet.Planet    `json:"planets"`
	SpyReports []report.SpyReport `json:"spy_reports"`
	LastScanAt *time.Time         `json:"last_scan_at"`
}

type Service struct {
	planets *planet.Service
	reports *report.Service
	logger  *slog.Logger
}

func NewService(planets *planet.Service, reports *report.Service, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service")

	return &Service{
		planets: planets,
		reports: reports,
		logger:  logger,
	}
}

// GetSystem composes the galaxy system view. Pure reads; an unscanned system
// yields empty listings and no scan timestamp rather than an error.
func (s *Service) GetSystem(ctx context.Context, galaxyNum, systemNum int64) (*SystemView, error) {
	logger := s.logger.With(
		"component", "galaxy_service",
		"operation", "get_system",
		"galaxy", galaxyNum,
		"system", systemNum,
	)
	logger.Debug("Getting galaxy system view")

	if galaxyNum <= 0 || systemNum <= 0 {
		return nil, errors.Validationf("invalid system %d:%d", galaxyNum, systemNum)
	}

	planets, err := s.planets.GetSystem(ctx, galaxyNum, systemNum)
	if err != nil {
		return nil, err
	}

	spyReports, err := s.reports.GetSpyBySystem(ctx, galaxyNum, systemNum)
	if err != nil {
		return nil, err
	}

	view := &SystemView{
		Planets:    planets,
		SpyReports: spyReports,
	}

	marker, err := s.planets.MarkerTimestamp(ctx, galaxyNum, systemNum)
	if err != nil {
		return nil, err
	}
	if marker != nil {
		view.LastScanAt = marker.LastScanAt
	}

	if view.Planets == nil {
		view.Planets = []planet.Planet{}
	}
	if view.SpyReports == nil {
		view.SpyReports = []report.SpyReport{}
	}

	return view, nil
}
