package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/foosdev/foosball-tracker/brackets"
	"github.com/foosdev/foosball-tracker/config"
	"github.com/foosdev/foosball-tracker/db"
	"github.com/foosdev/foosball-tracker/handlers"
	"github.com/foosdev/foosball-tracker/repositories"
	api "github.com/foosdev/foosball-tracker/routes"
	"github.com/foosdev/foosball-tracker/services"
	"github.com/foosdev/foosball-tracker/storage"
)

// How often the scheduler checks for a quarter boundary.
const seasonCheckInterval = time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("avatar storage not configured, uploads disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	cakeRepo := repositories.NewPostgresCakeRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)

	seasonService := services.NewSeasonService(dbConn, seasonRepo, playerRepo, logger)
	cakeService := services.NewCakeService(cakeRepo)
	leaderboardService := services.NewLeaderboardService(dbConn, gameRepo, playerRepo, leaderboardRepo, logger)
	recalcService := services.NewRecalculationService(dbConn, seasonRepo, gameRepo, playerRepo, cakeService, leaderboardService, logger)
	statsService := services.NewStatisticsService(dbConn, gameRepo, playerRepo)
	playerService := services.NewPlayerService(dbConn, playerRepo, uploader, logger)
	gameService := services.NewGameService(
		dbConn, gameRepo, playerRepo, tournamentRepo, auditRepo,
		seasonService, cakeService, leaderboardService, recalcService,
		wsHub, cfg.EditWindow, logger,
	)
	tournamentService := services.NewTournamentService(
		dbConn, tournamentRepo, playerRepo,
		seasonService, gameService, leaderboardService,
		wsHub, logger,
	)
	authService := services.NewAuthService(cfg.AdminPasswordHash, []byte(cfg.JWTSecretKey), 24*time.Hour)
	logger.Info("services initialized")

	// Season rollover does not depend on traffic: check periodically so the
	// reset happens even on a quiet quarter boundary.
	go func() {
		ticker := time.NewTicker(seasonCheckInterval)
		defer ticker.Stop()

		if _, err := seasonService.EnsureCurrentSeason(context.Background()); err != nil {
			logger.Error("season scheduler: initial check failed", slog.Any("error", err))
		}
		for range ticker.C {
			if _, err := seasonService.EnsureCurrentSeason(context.Background()); err != nil {
				logger.Error("season scheduler: periodic check failed", slog.Any("error", err))
			}
		}
	}()
	logger.Info("season scheduler started", slog.Duration("interval", seasonCheckInterval))

	authHandler := handlers.NewAuthHandler(authService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	gameHandler := handlers.NewGameHandler(gameService)
	seasonHandler := handlers.NewSeasonHandler(seasonService, recalcService)
	leaderboardHandler := handlers.NewLeaderboardHandler(statsService, seasonService, cakeService, leaderboardService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		[]byte(cfg.JWTSecretKey),
		authHandler,
		playerHandler,
		gameHandler,
		seasonHandler,
		leaderboardHandler,
		tournamentHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
