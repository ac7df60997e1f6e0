package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"alliance-tracker/internal/player"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type PlayerHandler struct {
	service *player.Service
}

func NewPlayerHandler(service *player.Service) *PlayerHandler {
	return &PlayerHandler{service: service}
}

func playerIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.Validationf("invalid player id: %q", r.PathValue("id"))
	}
	return id, nil
}

// Get handles GET /api/players/{id}.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_player")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := playerIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.GetByID(ctx, id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

type statsRequest struct {
	RecordedAt *time.Time     `json:"recorded_at"`
	Players    []player.Stats `json:"players"`
}

type statsResponse struct {
	Inserted int64 `json:"inserted"`
}

// IngestStats handles POST /api/players/stats: a bulk statistics sync for
// many players at one shared timestamp. Re-submitting the same batch inserts
// nothing new.
func (h *PlayerHandler) IngestStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "ingest_player_stats")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req statsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	var recordedAt time.Time
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	inserted, err := h.service.IngestStats(ctx, req.Players, recordedAt)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, statsResponse{Inserted: inserted})
}

type researchRequest struct {
	Research json.RawMessage `json:"research"`
}

// UpdateResearch handles PUT /api/players/{id}/research.
func (h *PlayerHandler) UpdateResearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "update_player_research")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := playerIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.UpdateResearch(ctx, id, string(req.Research)); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// MarkDeleted handles DELETE /api/players/{id}: a soft delete, the score
// history stays in place.
func (h *PlayerHandler) MarkDeleted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "mark_player_deleted")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := playerIDFromPath(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.MarkDeleted(ctx, id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}
