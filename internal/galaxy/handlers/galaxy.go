package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/galaxy"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type GalaxyHandler struct {
	service *galaxy.Service
}

func NewGalaxyHandler(service *galaxy.Service) *GalaxyHandler {
	return &GalaxyHandler{service: service}
}

// GetSystem handles GET /api/galaxy/{galaxy}/{system}: the planets of one
// system together with their latest spy reports and the scan timestamp.
func (h *GalaxyHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_galaxy_system")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	galaxyNum, err := strconv.ParseInt(r.PathValue("galaxy"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid galaxy: %q", r.PathValue("galaxy")))
		return
	}

	systemNum, err := strconv.ParseInt(r.PathValue("system"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid system: %q", r.PathValue("system")))
		return
	}

	view, err := h.service.GetSystem(ctx, galaxyNum, systemNum)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, view)
}
