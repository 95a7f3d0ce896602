package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/loomworks/backend/internal/infrastructure/config"
	"github.com/loomworks/backend/internal/infrastructure/logger"
	"github.com/loomworks/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to the database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	log.Info("Running schema migration",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Duplicate batch numbers from pre-index data would break the unique
	// index creation below, so heal them first.
	removed, err := persistence.HealDuplicateBatchNumbers(db.DB, log)
	if err != nil {
		log.Fatal("Failed to heal duplicate batch numbers", zap.Error(err))
	}
	if removed > 0 {
		log.Warn("Dropped duplicate production batches", zap.Int64("count", removed))
	}

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}

	log.Info("Schema migration completed successfully")
}
