package main

import (
	"medsynq/internal/router"
	"medsynq/internal/store"
	"medsynq/pkg/config"
	"medsynq/pkg/database"
	"medsynq/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting MedSynQ...", cfg.LogConfig()...)

	// Initialize database and run migrations
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	st := store.New(db)

	// Assemble the router
	e, err := router.New(cfg, st)
	if err != nil {
		log.Fatal("Failed to assemble router", zap.Error(err))
	}

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
