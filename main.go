// main.go
package main

import (
	"context"
	"log"
	"time"

	"hibachi-booking/cmd"
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/internal/usecase"
	"hibachi-booking/internal/wire"
	"hibachi-booking/pkg/database"
	"hibachi-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories and services
	repos := repository.NewRepository(db, logger)
	service := usecase.NewService(repos, config, logger)

	// Wire all dependencies
	app := wire.Wiring(service, config, logger)

	// Background reconciliation: flip expired holds and drop expired
	// travel cache rows on a cadence. Correctness never depends on these
	// sweeps; the read predicates re-check expiry themselves.
	startSweeps(service, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func startSweeps(service *usecase.Service, config *utils.Config, logger *zap.Logger) {
	holdEvery := time.Duration(config.Hold.SweepMinutes) * time.Minute
	if holdEvery <= 0 {
		holdEvery = 15 * time.Minute
	}

	cacheEvery := time.Duration(config.Travel.CleanupMinutes) * time.Minute
	if cacheEvery <= 0 {
		cacheEvery = time.Hour
	}

	go func() {
		ticker := time.NewTicker(holdEvery)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := service.Availability.ExpireStaleHolds(context.Background()); err != nil {
				logger.Error("Hold sweep failed", zap.Error(err))
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(cacheEvery)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := service.Travel.CleanupExpired(context.Background()); err != nil {
				logger.Error("Travel cache cleanup failed", zap.Error(err))
			}
		}
	}()
}
