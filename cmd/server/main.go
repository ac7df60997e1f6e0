package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alliance-tracker/internal/alliance"
	"alliance-tracker/internal/galaxy"
	"alliance-tracker/internal/hub"
	"alliance-tracker/internal/middleware"
	"alliance-tracker/internal/planet"
	"alliance-tracker/internal/player"
	"alliance-tracker/internal/report"
	"alliance-tracker/internal/score"
	"alliance-tracker/internal/server"
	"alliance-tracker/internal/shared/config"
	"alliance-tracker/internal/shared/database"
	"alliance-tracker/internal/shared/logger"
	"alliance-tracker/internal/shared/redis"
	"alliance-tracker/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging, cfg.Server.Environment)
	log := slog.With("component", "main")

	log.Info("Starting alliance tracker server",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache, err := redis.Connect(cfg.Redis)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	appLogger := slog.Default()

	playerRepo := player.NewRepository(db, appLogger)
	allianceRepo := alliance.NewRepository(db, appLogger)
	planetRepo := planet.NewRepository(db, appLogger)
	reportRepo := report.NewRepository(db, appLogger)
	scoreRepo := score.NewRepository(db, appLogger)
	userRepo := user.NewRepository(db, appLogger)
	hubRepo := hub.NewRepository(db, appLogger)

	playerService := player.NewService(playerRepo, appLogger)
	allianceService := alliance.NewService(allianceRepo, appLogger)
	planetService := planet.NewService(planetRepo, playerService, allianceService, cache, appLogger)
	reportService := report.NewService(reportRepo, appLogger)
	scoreService := score.NewService(scoreRepo, appLogger)
	userService := user.NewService(userRepo, appLogger)
	hubService := hub.NewService(hubRepo, cache, appLogger)
	galaxyService := galaxy.NewService(planetService, reportService, appLogger)

	auth := middleware.NewAPIKeyAuth(userService, appLogger)

	routes := server.NewRoutes(
		db,
		auth,
		planetService,
		playerService,
		allianceService,
		reportService,
		scoreService,
		userService,
		hubService,
		galaxyService,
		appLogger,
	)
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS(cfg.Frontend)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	handler := corsMiddleware.Handler(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
