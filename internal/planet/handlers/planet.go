package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"alliance-tracker/internal/planet"
	"alliance-tracker/internal/shared/coords"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// IngestScan handles POST /api/planets/scan: one full galaxy-system scan.
func (h *PlanetHandler) IngestScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ingest_galaxy_scan")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var scan planet.GalaxyScan
	if err := json.NewDecoder(r.Body).Decode(&scan); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	result, err := h.service.MergeGalaxyScan(ctx, scan)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

type detailsRequest struct {
	Coordinates string                     `json:"coordinates"`
	Type        string                     `json:"type"`
	Details     planet.DetailedObservation `json:"details"`
}

// IngestDetails handles POST /api/planets/details: a detailed observation of
// one planet, disjoint from scan ownership data.
func (h *PlanetHandler) IngestDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ingest_planet_details")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	c, err := coords.Parse(req.Coordinates)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planetType := planet.Type(req.Type)
	if planetType == "" {
		planetType = planet.TypePlanet
	}

	if err := h.service.MergeDetailedObservation(ctx, c, planetType, req.Details); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// Get handles GET /api/planets?coordinates=g:s:p&type=PLANET, the direct key
// lookup. Soft-deleted records are included.
func (h *PlanetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planet")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	c, err := coords.Parse(r.URL.Query().Get("coordinates"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planetType := planet.Type(r.URL.Query().Get("type"))
	if planetType == "" {
		planetType = planet.TypePlanet
	}

	p, err := h.service.GetByCoordinates(ctx, c, planetType)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}
