package main

import (
	"opportunity_hub/internal/config" // Custom import path (Config)
	"opportunity_hub/internal/store"  // Custom import path (Store)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	st, err := store.Open(cfg) // Connect to the configured database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	defer st.Close()

	gs, ok := st.(*store.GormStore)
	if !ok {
		logrus.Infof("DB_DRIVER=%s keeps no schema, nothing to migrate", cfg.DBDriver)
		return
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := gs.Migrate(); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
