package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/report"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
)

type ReportHandler struct {
	service *report.Service
}

func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// UpsertSpy handles POST /api/reports/spy.
func (h *ReportHandler) UpsertSpy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "upsert_spy_report")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var rep report.SpyReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.MergeSpyReport(ctx, &rep); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// UpsertRecycle handles POST /api/reports/recycle.
func (h *ReportHandler) UpsertRecycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "upsert_recycle_report")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var rep report.RecycleReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.MergeRecycleReport(ctx, &rep); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// UpsertBattle handles POST /api/reports/battle.
func (h *ReportHandler) UpsertBattle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "upsert_battle_report")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var rep report.BattleReport
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.MergeBattleReport(ctx, &rep); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

type messagesRequest struct {
	MessageIDs []int64 `json:"message_ids"`
}

type messagesResponse struct {
	Existing []int64 `json:"existing"`
	New      []int64 `json:"new"`
}

// CheckMessages handles POST /api/messages: splits the submitted message ids
// into already-seen and new, registering the new ones so a second submission
// reports them as existing.
func (h *ReportHandler) CheckMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "check_messages")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req messagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	existing, newIDs, err := h.service.CheckDuplicates(ctx, req.MessageIDs)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, messagesResponse{Existing: existing, New: newIDs})
}

// GetSpyByCoordinates handles GET /api/reports/spy/{galaxy}/{system}/{planet}.
func (h *ReportHandler) GetSpyByCoordinates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_spy_reports")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	galaxy, err := parsePathInt(r, "galaxy")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	system, err := parsePathInt(r, "system")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	planetNum, err := parsePathInt(r, "planet")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planetType := r.URL.Query().Get("type")
	if planetType == "" {
		planetType = "PLANET"
	}
	limit := parseQueryInt(r, "limit", 1)

	reports, err := h.service.GetSpyByCoordinates(ctx, galaxy, system, planetNum, planetType, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, reports)
}

// GetSpyHistory handles GET /api/reports/spy/{galaxy}/{system}/{planet}/history.
func (h *ReportHandler) GetSpyHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_spy_history")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	galaxy, err := parsePathInt(r, "galaxy")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	system, err := parsePathInt(r, "system")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	planetNum, err := parsePathInt(r, "planet")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planetType := r.URL.Query().Get("type")
	if planetType == "" {
		planetType = "PLANET"
	}
	limit := parseQueryInt(r, "limit", 10)

	history, err := h.service.GetSpyHistory(ctx, galaxy, system, planetNum, planetType, limit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, history)
}

func parsePathInt(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, errors.Validationf("invalid %s: %q", name, r.PathValue(name))
	}
	return value, nil
}

func parseQueryInt(r *http.Request, name string, fallback int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
