package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type AllianceHandler struct {
	service *alliance.Service
}

func NewAllianceHandler(service *alliance.Service) *AllianceHandler {
	return &AllianceHandler{service: service}
}

type ensureRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Ensure handles POST /api/alliances: idempotent create-or-retag.
func (h *AllianceHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ensure_alliance")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req ensureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.Ensure(ctx, req.ID, req.Name, req.Tag); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// Get handles GET /api/alliances/{id}.
func (h *AllianceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_alliance")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid alliance ID format", err))
		return
	}

	a, err := h.service.GetByID(ctx, id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, a)
}
