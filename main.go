// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ticketbooth/cmd"
	"ticketbooth/internal/data/repository"
	"ticketbooth/internal/payment"
	"ticketbooth/internal/wire"
	"ticketbooth/internal/worker"
	"ticketbooth/pkg/cache"
	"ticketbooth/pkg/database"
	"ticketbooth/pkg/utils"

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

	// Redis cache; nil when unreachable, browsing then skips the cache
	c := cache.InitCache(config.Redis, logger)
	defer c.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Payment gateway
	gateway := payment.NewMockGateway(time.Duration(config.Payment.MockLatencyMs)*time.Millisecond, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, gateway, c, config, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background expiry reclaimer
	reclaimer := worker.NewReclaimer(app.Service.Reclaim, config.Booking.ReclaimInterval(), logger)
	reclaimer.Start(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}

	reclaimer.Wait()
	logger.Info("Application stopped")
}
