package main

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/config"
	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB is swapped in tests
var openDB = func() (*gorm.DB, error) {
	config.LoadConfig()
	logger.Init(config.AppConfig.Environment, config.AppConfig.LogLevel)
	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := migrations.Setup(database.DB); err != nil {
		return nil, err
	}
	return database.DB, nil
}

// stack is what the data commands operate on
type stack struct {
	engine   *services.Engine
	projects *services.ProjectStore
}

func openStack() (*stack, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	projects := services.NewProjectStore(db)
	ledger := services.NewGormLedger(db, database.NopCache{}, 0)
	engine := services.NewEngine(services.DefaultCatalog(), ledger, nil, projects, services.NewActivityLog(db))
	return &stack{engine: engine, projects: projects}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cblctl",
		Short:         "Operate the ActiveLearn Hub badge ledger",
		Long:          "cblctl inspects the badge catalog, user XP and project progress, and grants badges by hand.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newCatalogCmd())
	root.AddCommand(newXPCmd())
	root.AddCommand(newGrantCmd())
	root.AddCommand(newProgressCmd())
	return root
}
