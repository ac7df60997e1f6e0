package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"alliance-tracker/internal/shared/errors"
	"alliance-tracker/internal/shared/response"
	"alliance-tracker/internal/user"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil on unauthenticated
// routes.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(userContextKey).(*user.User)
	return u
}

type APIKeyAuth struct {
	users  *user.Service
	logger *slog.Logger
}

func NewAPIKeyAuth(users *user.Service, logger *slog.Logger) *APIKeyAuth {
	return &APIKeyAuth{
		users:  users,
		logger: logger,
	}
}

func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-Api-Key"); key != "" {
		return key
	}
	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}
	return ""
}

// Require resolves the caller's api key to a user and stores it on the
// request context. The activity timestamp is touched on every hit.
func (a *APIKeyAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.With("middleware", "api_key_auth")

		apiKey := extractAPIKey(r)
		if apiKey == "" {
			response.Error(w, r, logger, errors.Unauthorized("api key is required"))
			return
		}

		u, err := a.users.ResolveByAPIKey(r.Context(), apiKey)
		if err != nil {
			if errors.GetType(err) == errors.ErrorTypeNotFound {
				response.Error(w, r, logger, errors.Unauthorized("invalid api key"))
				return
			}
			response.Error(w, r, logger, err)
			return
		}

		a.users.TouchActivity(r.Context(), u.ID)

		ctx := context.WithValue(r.Context(), userContextKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally rejects non-admin users.
func (a *APIKeyAuth) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.With("middleware", "api_key_auth")

		u := UserFromContext(r.Context())
		if u == nil || !u.IsAdmin() {
			response.Error(w, r, logger, errors.Forbidden("admin role required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
