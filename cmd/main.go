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

	"github.com/courtside/tournament-engine/brackets"
	"github.com/courtside/tournament-engine/config"
	"github.com/courtside/tournament-engine/db"
	"github.com/courtside/tournament-engine/handlers"
	"github.com/courtside/tournament-engine/middleware"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/courtside/tournament-engine/routes"
	"github.com/courtside/tournament-engine/services"
	"github.com/courtside/tournament-engine/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	txManager := repositories.NewSQLTxManager(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	pointRepo := repositories.NewPostgresPointRepository(dbConn)
	titleRepo := repositories.NewPostgresTitleRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	historyRepo := repositories.NewPostgresHistoryRepository(dbConn)
	logger.Info("repositories initialized")

	// The results archive is optional; without R2 credentials matches still
	// flow, finals just are not archived.
	var archiver services.ResultArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		archiver = services.NewResultArchiver(uploader, matchRepo, titleRepo, tournamentRepo, logger)
		logger.Info("results archive enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("results archive disabled, R2 not configured")
	}

	rewardCalculator := services.NewRewardCalculator(pointRepo, playerRepo, tournamentRepo, logger)
	titleAssigner := services.NewTitleAssigner(titleRepo, playerRepo, logger)
	scoreService := services.NewMatchScoreService(
		txManager,
		matchRepo,
		playerRepo,
		historyRepo,
		rewardCalculator,
		titleAssigner,
		wsHub,
		archiver,
		logger,
	)
	groupService := services.NewGroupStandingsService(txManager, tournamentRepo, groupRepo, teamRepo, matchRepo, logger)
	overviewService := services.NewTournamentOverviewService(tournamentRepo, matchRepo, groupRepo, teamRepo, titleRepo, logger)
	authService := services.NewAuthService(cfg.OperatorName, cfg.OperatorPasswordHash, cfg.JWTSecretKey, logger)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Match:      handlers.NewMatchHandler(scoreService),
		Group:      handlers.NewGroupHandler(groupService),
		Tournament: handlers.NewTournamentHandler(overviewService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, middleware.NewAuthenticator(cfg.JWTSecretKey))
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
