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

	"github.com/courtline/scoring-system/config"
	"github.com/courtline/scoring-system/db"
	"github.com/courtline/scoring-system/handlers"
	"github.com/courtline/scoring-system/repositories"
	api "github.com/courtline/scoring-system/routes"
	"github.com/courtline/scoring-system/scoreboard"
	"github.com/courtline/scoring-system/scoring"
	"github.com/courtline/scoring-system/services"
	"github.com/courtline/scoring-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Repositories: postgres when DATABASE_URL is set, in-memory otherwise.
	// The in-memory mode covers the common courtside setup where the app
	// runs standalone on a laptop for the duration of one match.
	var matchRepo repositories.MatchRepository
	var playerRepo repositories.PlayerRepository
	if cfg.DatabaseURL != "" {
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
		matchRepo = repositories.NewPostgresMatchRepository(dbConn)
		playerRepo = repositories.NewPostgresPlayerRepository(dbConn)
		logger.Info("database connection established")
	} else {
		matchRepo = repositories.NewMemoryMatchRepository()
		playerRepo = repositories.NewMemoryPlayerRepository()
		logger.Info("using in-memory repositories")
	}

	// Export archiving (Cloudflare R2) is optional and off unless fully
	// configured.
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
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
		logger.Info("export archiving disabled, R2 not configured")
	}

	wsHub := scoreboard.NewHub(logger)
	go wsHub.Run()
	logger.Info("scoreboard hub started")

	rules := scoring.DefaultRules()
	rules.SetTarget = cfg.SetTarget
	rules.FinalSetTarget = cfg.FinalSetTarget
	engine := scoring.NewEngine(rules)

	matchService := services.NewMatchService(matchRepo, playerRepo, engine, wsHub, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, matchRepo)
	summaryService := services.NewSummaryService(matchRepo, playerRepo)
	csvService := services.NewCSVService(matchRepo, playerRepo)
	logger.Info("services initialized")

	matchHandler := handlers.NewMatchHandler(matchService)
	playerHandler := handlers.NewPlayerHandler(playerService, csvService)
	summaryHandler := handlers.NewSummaryHandler(summaryService, csvService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, matchHandler, playerHandler, summaryHandler, webSocketHandler)
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
