package main

import (
	"keepify/internal/config"  // Custom import path (Config)
	"keepify/internal/db"      // Custom import path (Database)
	"keepify/internal/service" // Orphaned-item sweep

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration and maintenance
func main() {
	cfg := config.LoadConfig() // Load configuration

	conn := db.Migrate(cfg.DSN())

	// Sweep item rows left behind by out-of-band order deletions
	orders := service.NewOrderService(conn, cfg.UploadDir)
	removed, err := orders.CleanupOrphanedItems()
	if err != nil {
		logrus.Fatalf("orphaned item cleanup failed: %v", err)
	}
	logrus.Infof("Orphaned item cleanup done, removed %d rows", removed)
}
