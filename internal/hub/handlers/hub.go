package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/hub"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type HubHandler struct {
	service *hub.Service
}

func NewHubHandler(service *hub.Service) *HubHandler {
	return &HubHandler{service: service}
}

func allianceIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.Validationf("invalid alliance id: %q", r.PathValue("id"))
	}
	return id, nil
}

// Planets handles GET /api/hub/alliance/{id}/planets.
func (h *HubHandler) Planets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "hub_alliance_planets")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := allianceIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planets, err := h.service.GetAlliancePlanets(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, planets)
}

// Fleet handles GET /api/hub/alliance/{id}/fleet.
func (h *HubHandler) Fleet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "hub_fleet_roster")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := allianceIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	roster, err := h.service.GetFleetRoster(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, roster)
}

// Buildings handles GET /api/hub/alliance/{id}/buildings.
func (h *HubHandler) Buildings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "hub_buildings_roster")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := allianceIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	roster, err := h.service.GetBuildingsRoster(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, roster)
}

// Research handles GET /api/hub/alliance/{id}/research.
func (h *HubHandler) Research(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "hub_research_roster")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := allianceIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	roster, err := h.service.GetResearchRoster(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, roster)
}

// ScanStatus handles GET /api/hub/scan-status: per-system scan freshness for
// the whole universe, served from cache when available.
func (h *HubHandler) ScanStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "hub_scan_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	status, err := h.service.GetScanStatus(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, status)
}
