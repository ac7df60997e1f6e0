package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/score"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type ScoreHandler struct {
	service *score.Service
}

func NewScoreHandler(service *score.Service) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// Append handles POST /api/scores: appends one score snapshot for a player.
// A snapshot at an already-recorded timestamp is rejected with a conflict.
func (h *ScoreHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "append_score")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var snapshot score.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.Append(ctx, &snapshot); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, map[string]bool{"success": true})
}

// AllianceChart handles GET /api/scores/alliance/{id}: the full score history
// of every active member, ordered for per-player series rendering.
func (h *ScoreHandler) AllianceChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "alliance_chart")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid alliance id: %q", r.PathValue("id")))
		return
	}

	snapshots, err := h.service.GetAllianceChart(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snapshots)
}

// AllianceRecentChart handles GET /api/scores/alliance/{id}/recent: the same
// series restricted to the recent window, newest first.
func (h *ScoreHandler) AllianceRecentChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "alliance_recent_chart")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	allianceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid alliance id: %q", r.PathValue("id")))
		return
	}

	snapshots, err := h.service.GetAllianceRecentChart(ctx, allianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snapshots)
}

// PlayerChart handles GET /api/scores/player/{id}.
func (h *ScoreHandler) PlayerChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "player_chart")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	playerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid player id: %q", r.PathValue("id")))
		return
	}

	snapshots, err := h.service.GetPlayerChart(ctx, playerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snapshots)
}
