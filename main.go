package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"chartlab/adapters/postgres"
	"chartlab/internal"
	"chartlab/internal/config"
	"chartlab/internal/errors"
	"chartlab/internal/store"
	"chartlab/ports"
	"chartlab/ui"
)

// initDatabase opens the optional metadata database and ensures its schema
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.DefaultLogger

	// Metadata persistence is optional: without DATABASE_URL everything
	// runs in memory and datasets vanish on restart.
	var repo ports.DatasetRepository
	if appConfig.Database.Enabled {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewDatasetRepository(db)
		logger.Info("Dataset metadata persistence enabled")
	} else {
		logger.Info("DATABASE_URL not set, running without metadata persistence")
	}

	server := ui.NewServer(appConfig, store.New(), repo, logger)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
