package server

import (
	"log/slog"
	"net/http"

	"alliance-tracker/internal/alliance"
	allianceHandlers "alliance-tracker/internal/alliance/handlers"
	"alliance-tracker/internal/galaxy"
	galaxyHandlers "alliance-tracker/internal/galaxy/handlers"
	"alliance-tracker/internal/hub"
	hubHandlers "alliance-tracker/internal/hub/handlers"
	"alliance-tracker/internal/middleware"
	"alliance-tracker/internal/planet"
	planetHandlers "alliance-tracker/internal/planet/handlers"
	"alliance-tracker/internal/player"
	playerHandlers "alliance-tracker/internal/player/handlers"
	"alliance-tracker/internal/report"
	reportHandlers "alliance-tracker/internal/report/handlers"
	"alliance-tracker/internal/score"
	scoreHandlers "alliance-tracker/internal/score/handlers"
	serverHandlers "alliance-tracker/internal/server/handlers"
	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/user"
	userHandlers "alliance-tracker/internal/user/handlers"
)

type Routes struct {
	db              *database.DB
	auth            *middleware.APIKeyAuth
	planetService   *planet.Service
	playerService   *player.Service
	allianceService *alliance.Service
	reportService   *report.Service
	scoreService    *score.Service
	userService     *user.Service
	hubService      *hub.Service
	galaxyService   *galaxy.Service
	logger          *slog.Logger
}

func NewRoutes(
	db *database.DB,
	auth *middleware.APIKeyAuth,
	planetService *planet.Service,
	playerService *player.Service,
	allianceService *alliance.Service,
	reportService *report.Service,
	scoreService *score.Service,
	userService *user.Service,
	hubService *hub.Service,
	galaxyService *galaxy.Service,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:              db,
		auth:            auth,
		planetService:   planetService,
		playerService:   playerService,
		allianceService: allianceService,
		reportService:   reportService,
		scoreService:    scoreService,
		userService:     userService,
		hubService:      hubService,
		galaxyService:   galaxyService,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	playerHandler := playerHandlers.NewPlayerHandler(r.playerService)
	allianceHandler := allianceHandlers.NewAllianceHandler(r.allianceService)
	reportHandler := reportHandlers.NewReportHandler(r.reportService)
	scoreHandler := scoreHandlers.NewScoreHandler(r.scoreService)
	userHandler := userHandlers.NewUserHandler(r.userService)
	hubHandler := hubHandlers.NewHubHandler(r.hubService)
	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService)

	protected := func(h http.HandlerFunc) http.Handler {
		return r.auth.Require(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return r.auth.RequireAdmin(h)
	}

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)

	// Ingestion endpoints (authenticated users)
	mux.Handle("/api/messages", protected(reportHandler.CheckMessages))
	mux.Handle("/api/planets/scan", protected(planetHandler.IngestScan))
	mux.Handle("/api/planets/details", protected(planetHandler.IngestDetails))
	mux.Handle("/api/reports/spy", protected(reportHandler.UpsertSpy))
	mux.Handle("/api/reports/recycle", protected(reportHandler.UpsertRecycle))
	mux.Handle("/api/reports/battle", protected(reportHandler.UpsertBattle))
	mux.Handle("/api/scores", protected(scoreHandler.Append))
	mux.Handle("/api/players/stats", protected(playerHandler.IngestStats))
	mux.Handle("PUT /api/players/{id}/research", protected(playerHandler.UpdateResearch))
	mux.Handle("/api/alliances", protected(allianceHandler.Ensure))

	// Read endpoints (authenticated users)
	mux.Handle("GET /api/planets", protected(planetHandler.Get))
	mux.Handle("GET /api/players/{id}", protected(playerHandler.Get))
	mux.Handle("GET /api/alliances/{id}", protected(allianceHandler.Get))
	mux.Handle("GET /api/galaxy/{galaxy}/{system}", protected(galaxyHandler.GetSystem))
	mux.Handle("GET /api/reports/spy/{galaxy}/{system}/{planet}", protected(reportHandler.GetSpyByCoordinates))
	mux.Handle("GET /api/reports/spy/{galaxy}/{system}/{planet}/history", protected(reportHandler.GetSpyHistory))
	mux.Handle("GET /api/scores/alliance/{id}", protected(scoreHandler.AllianceChart))
	mux.Handle("GET /api/scores/alliance/{id}/recent", protected(scoreHandler.AllianceRecentChart))
	mux.Handle("GET /api/scores/player/{id}", protected(scoreHandler.PlayerChart))
	mux.Handle("GET /api/hub/alliance/{id}/planets", protected(hubHandler.Planets))
	mux.Handle("GET /api/hub/alliance/{id}/fleet", protected(hubHandler.Fleet))
	mux.Handle("GET /api/hub/alliance/{id}/buildings", protected(hubHandler.Buildings))
	mux.Handle("GET /api/hub/alliance/{id}/research", protected(hubHandler.Research))
	mux.Handle("GET /api/hub/scan-status", protected(hubHandler.ScanStatus))
	mux.Handle("GET /api/users/me", protected(userHandler.Me))

	// Admin-only endpoints
	mux.Handle("GET /api/users", admin(userHandler.List))
	mux.Handle("POST /api/users", admin(userHandler.Create))
	mux.Handle("DELETE /api/users/{id}", admin(userHandler.Delete))
	mux.Handle("PUT /api/users/{id}/role", admin(userHandler.UpdateRole))
	mux.Handle("PUT /api/users/{id}/language", admin(userHandler.UpdateLanguage))
	mux.Handle("DELETE /api/players/{id}", admin(playerHandler.MarkDeleted))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health"},
		"ingestion_endpoints", []string{"/api/messages", "/api/planets/scan", "/api/planets/details", "/api/reports/spy", "/api/reports/recycle", "/api/reports/battle", "/api/scores", "/api/players/stats"},
		"admin_endpoints", []string{"/api/users", "/api/players/{id}"},
	)

	return mux
}
