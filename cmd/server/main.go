package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/router"
	"github.com/skillshare-hub/backend/pkg/config"
	"github.com/skillshare-hub/backend/pkg/logger"
	"github.com/skillshare-hub/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logg := logger.New(cfg.LogLevel, cfg.LogPretty)

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Initialize the event bus
	var bus events.Bus
	switch cfg.EventBus {
	case "redis":
		bus, err = events.NewRedisBus(cfg.RedisAddr, logg)
		if err != nil {
			log.Fatalf("Failed to connect event bus to Redis: %v", err)
		}
	default:
		bus = events.NewMemoryBus()
	}
	defer bus.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo.Database(cfg.MongoDB), bus, logg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
