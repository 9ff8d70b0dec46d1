package main

import (
	"os"

	"github.com/ebarcelosf/Activelearn-hub/internal/config"
	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/seeds"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
)

func main() {
	config.LoadConfig()
	logger.Init(config.AppConfig.Environment, config.AppConfig.LogLevel)

	if config.AppConfig.Environment == "production" && os.Getenv("ALLOW_SEED") != "true" {
		logger.Fatal().Msg("Refusing to seed production without ALLOW_SEED=true")
	}

	if err := database.Connect(); err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}

	if err := migrations.Setup(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Migrations failed")
	}

	user, err := seeds.GetOrCreateDemoUser(database.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed demo user")
	}

	if _, err := seeds.SeedDemoProject(database.DB, user); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed demo project")
	}

	logger.Info().Str("email", seeds.DemoEmail).Msg("Seeding complete")
}
