package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"alliance-tracker/internal/middleware"
	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
	"alliance-tracker/internal/user"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users. API keys are masked in the listing.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_users")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	users, err := h.service.List(ctx)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, users)
}

type createUserRequest struct {
	APIKey     string `json:"api_key"`
	PlayerID   *int64 `json:"player_id"`
	AllianceID *int64 `json:"alliance_id"`
}

type createUserResponse struct {
	ID int64 `json:"id"`
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "create_user")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	id, err := h.service.Create(ctx, req.APIKey, req.PlayerID, req.AllianceID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, createUserResponse{ID: id})
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "delete_user")

	if r.Method != http.MethodDelete {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid user id: %q", r.PathValue("id")))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

type updateRoleRequest struct {
	Role user.Role `json:"role"`
}

// UpdateRole handles PUT /api/users/{id}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "update_user_role")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid user id: %q", r.PathValue("id")))
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.UpdateRole(ctx, id, req.Role); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

type updateLanguageRequest struct {
	Language string `json:"language"`
}

// UpdateLanguage handles PUT /api/users/{id}/language.
func (h *UserHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "update_user_language")

	if r.Method != http.MethodPut {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, r, logger, errors.Validationf("invalid user id: %q", r.PathValue("id")))
		return
	}

	var req updateLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if err := h.service.UpdateLanguage(ctx, id, req.Language); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/users/me: the authenticated caller's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_current_user")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	current := middleware.UserFromContext(r.Context())
	if current == nil {
		response.Error(w, r, logger, errors.Unauthorized("no authenticated user"))
		return
	}

	response.Success(w, http.StatusOK, current)
}
