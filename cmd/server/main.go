package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/config"
	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/routes"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Environment, cfg.LogLevel)

	logger.Info().Str("environment", cfg.Environment).Msg("Starting ActiveLearn Hub backend")

	production := cfg.Environment == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "" {
			logger.Fatal().Msg("JWT_SECRET must be set in production")
		}
	}

	if err := database.Connect(); err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}

	ctx := context.Background()
	database.InitRedis(ctx)

	logger.Info().Msg("Running database migrations")
	if err := migrations.Setup(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Database migrations failed")
	}

	// Badge engine and its collaborators
	catalog := services.DefaultCatalog()
	ledger := services.NewGormLedger(database.DB, database.NewCache(), cfg.LedgerTTL)
	notifier := services.NewNotifier(cfg.NotificationQueueSize)
	feed := services.NewActivityLog(database.DB)
	projects := services.NewProjectStore(database.DB)
	engine := services.NewEngine(catalog, ledger, notifier, projects, feed)

	var files services.FileStore
	if store, err := services.NewR2Store(ctx, cfg); err == nil {
		files = store
	} else if errors.Is(err, services.ErrStorageDisabled) {
		logger.Warn().Msg("R2 not configured, prototype uploads disabled")
	} else {
		logger.Fatal().Err(err).Msg("Failed to init file storage")
	}

	if cfg.ResendAPIKey == "" {
		logger.Warn().Msg("RESEND_API_KEY not set, temporary password emails will fail")
	}

	handlers.Init(handlers.Deps{
		Engine:   engine,
		Projects: projects,
		Tracker:  services.NewPhaseTracker(projects, engine, feed),
		Feed:     feed,
		Resetter: services.NewPasswordResetter(database.DB, services.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)),
		Files:    files,
	})

	socketServer := handlers.InitSocketServer()
	notifier.AddSink(handlers.NewBadgeSink(socketServer))
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error().Err(err).Msg("Socket server stopped")
		}
	}()
	defer socketServer.Close()

	r := routes.NewRouter(production, socketServer)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if database.Redis != nil {
		_ = database.Redis.Close()
	}

	logger.Info().Msg("Server exited")
}
