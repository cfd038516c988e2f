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

	"github.com/courtside/pickleball-system/brackets"
	"github.com/courtside/pickleball-system/config"
	"github.com/courtside/pickleball-system/db"
	"github.com/courtside/pickleball-system/handlers"
	"github.com/courtside/pickleball-system/repositories"
	api "github.com/courtside/pickleball-system/routes"
	"github.com/courtside/pickleball-system/services"
	"github.com/courtside/pickleball-system/storage"
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

	var bannerStore storage.BannerStore
	if cfg.R2Configured() {
		bannerStore, err = storage.NewCloudflareR2Store(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 banner store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 banner store initialized")
	} else {
		logger.Warn("R2 storage not configured, banner uploads disabled")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txRunner := repositories.NewSQLTxRunner(dbConn)
	logger.Info("repositories initialized")

	// One locker shared by every service that mutates tournament state, so
	// fixture generation and match progression on the same tournament cannot
	// interleave.
	locker := services.NewTournamentLocker()

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	tournamentService := services.NewTournamentService(tournamentRepo, matchRepo, bannerStore, locker)
	participantService := services.NewParticipantService(participantRepo, tournamentRepo, matchRepo)
	fixtureService := services.NewFixtureService(txRunner, tournamentRepo, participantRepo, matchRepo, locker, wsHub, logger)
	progressionService := services.NewProgressionService(
		txRunner,
		tournamentRepo,
		participantRepo,
		matchRepo,
		locker,
		wsHub,
		logger,
		cfg.QualifiersPerGroup,
	)
	standingsService := services.NewStandingsService(tournamentRepo, participantRepo, matchRepo)
	importService := services.NewImportService(txRunner, tournamentRepo, participantRepo, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, fixtureService, standingsService)
	participantHandler := handlers.NewParticipantHandler(participantService, importService)
	matchHandler := handlers.NewMatchHandler(progressionService, matchRepo)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		tournamentHandler,
		participantHandler,
		matchHandler,
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
