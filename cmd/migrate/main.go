package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/campus-events-api/internal/config"
	"github.com/gravadigital/campus-events-api/internal/logger"
	"github.com/gravadigital/campus-events-api/internal/storage/migrations"
	"github.com/gravadigital/campus-events-api/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Migration()

	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	seed := flag.Bool("seed", !cfg.IsProduction(), "Also apply sample data migrations")
	flag.Parse()

	log.Info("Starting migration process", "rollback", *rollback, "seed", *seed)

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if *rollback {
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")
	} else {
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db, migrations.Options{IncludeSeed: *seed}); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	stats := postgres.GetDatabaseMetrics(db)
	log.Debug("Connection pool", "open", stats.OpenConnections, "in_use", stats.InUseConnections, "idle", stats.IdleConnections)

	fmt.Println("Migration process completed!")
}
