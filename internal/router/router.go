package router

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/events"
	"github.com/skillshare-hub/backend/internal/handlers"
	"github.com/skillshare-hub/backend/internal/middleware"
	"github.com/skillshare-hub/backend/internal/repositories"
	"github.com/skillshare-hub/backend/internal/services"
	"github.com/skillshare-hub/backend/internal/ws"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, bus events.Bus, logger zerolog.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	reactionRepo := repositories.NewMongoReactionRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	if err := reactionRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create reaction indexes: %v", err)
	}

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, bus, logger)
	engagementService := services.NewEngagementService(
		userRepo, postRepo, commentRepo, reactionRepo, notificationService, bus, logger)

	// --- Routes (identity supplied by the gateway in front of us) ---
	api := e.Group("/api/v1")
	api.Use(middleware.Identity())

	followHandler := handlers.NewFollowHandler(engagementService)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	reactionHandler := handlers.NewReactionHandler(engagementService)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	commentHandler := handlers.NewCommentHandler(engagementService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	wsHandler := ws.NewHandler(bus, logger)
	wsHandler.RegisterRoutes(api)
	log.Println("WebSocket route configured.")

	log.Println("All routes configured.")
}
