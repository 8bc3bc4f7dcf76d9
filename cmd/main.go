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

	"github.com/ickweb3/discord-predictions-bot/config"
	"github.com/ickweb3/discord-predictions-bot/db"
	"github.com/ickweb3/discord-predictions-bot/discord"
	"github.com/ickweb3/discord-predictions-bot/handlers"
	"github.com/ickweb3/discord-predictions-bot/live"
	api "github.com/ickweb3/discord-predictions-bot/routes"
	"github.com/ickweb3/discord-predictions-bot/services"
	"github.com/ickweb3/discord-predictions-bot/storage"
	"github.com/ickweb3/discord-predictions-bot/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort), slog.String("store", cfg.StoreDriver))

	// Backing store
	var backing store.Store
	switch cfg.StoreDriver {
	case config.DriverPostgres:
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
		backing, err = store.NewPostgresStore(context.Background(), dbConn)
		if err != nil {
			logger.Error("failed to initialize postgres store", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		backing, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("failed to initialize file store", slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("store initialized")

	// Live update hub
	hub := live.NewHub(logger)
	go hub.Run()

	// Services
	scoringService := services.NewScoringService(backing, backing)
	tournamentService := services.NewTournamentService(backing, scoringService, hub, logger)
	predictionService := services.NewPredictionService(backing, backing)
	logger.Info("services initialized")

	// Optional snapshot scheduler
	snapshotsOn, err := cfg.SnapshotsEnabled()
	if err != nil {
		logger.Error("invalid snapshot configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if snapshotsOn {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		snapshotService := services.NewSnapshotService(backing, uploader, logger)

		go func() {
			ticker := time.NewTicker(cfg.SnapshotInterval)
			defer ticker.Stop()
			logger.Info("snapshot scheduler started", slog.Duration("interval", cfg.SnapshotInterval))
			for range ticker.C {
				if err := snapshotService.Snapshot(context.Background()); err != nil {
					logger.Error("snapshot failed", slog.Any("error", err))
				}
			}
		}()
	} else {
		logger.Info("snapshots disabled: no R2 configuration")
	}

	// Discord adapter
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Error("failed to create discord session", slog.Any("error", err))
		os.Exit(1)
	}
	router := discord.NewRouter(tournamentService, predictionService, scoringService, logger)
	session.AddHandler(router.HandleInteraction)
	session.AddHandler(router.HandleReactionAdd)

	if err := session.Start(); err != nil {
		logger.Error("failed to start discord session", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close discord session", slog.Any("error", err))
		}
	}()
	if err := session.RegisterCommands(cfg.DiscordAppID, cfg.DiscordGuildID); err != nil {
		logger.Error("failed to register discord commands", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("discord session online")

	// HTTP read API
	roundHandler := handlers.NewRoundHandler(tournamentService, predictionService, scoringService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, scoringService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, tournamentService)

	chiRouter := chi.NewRouter()
	api.SetupRoutes(chiRouter, roundHandler, tournamentHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      chiRouter,
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
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		}
	}
	logger.Info("application exited")
}
