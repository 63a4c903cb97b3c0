package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mehedi83/threads-clone/backend/internal/handlers"
	"github.com/mehedi83/threads-clone/backend/internal/jobs"
	"github.com/mehedi83/threads-clone/backend/internal/mailer"
	"github.com/mehedi83/threads-clone/backend/internal/media"
	"github.com/mehedi83/threads-clone/backend/internal/middleware"
	"github.com/mehedi83/threads-clone/backend/internal/realtime"
	"github.com/mehedi83/threads-clone/backend/internal/repositories"
	"github.com/mehedi83/threads-clone/backend/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, mgClient *mongo.Client, cfg *config.Config) {
	db := mgClient.Database(cfg.MongoDB)

	// Health check - always accessible
	e.GET("/api/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	messageRepo := repositories.NewMongoMessageRepository(db)

	// --- Shared services ---
	hub := realtime.NewHub(notificationRepo, messageRepo)
	mediaClient := media.NewClient(cfg.BlobStoreURL, cfg.BlobStoreKey)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, cfg.ClientURL)

	auth := middleware.Protect(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Realtime gateway
	e.GET("/ws", hub.ServeWS)
	log.Println("Realtime gateway configured.")

	// User routes
	userGroup := e.Group("/api/users")
	userHandler := handlers.NewUserHandler(userRepo, postRepo, notificationRepo, hub, mediaClient, mail, cfg.JWTSecret)
	userHandler.RegisterUserRoutes(userGroup, auth, optionalAuth)
	log.Println("User routes configured.")

	// Post routes
	postGroup := e.Group("/api/posts")
	postHandler := handlers.NewPostHandler(postRepo, userRepo, notificationRepo, hub, mediaClient)
	postHandler.RegisterPostRoutes(postGroup, auth)
	log.Println("Post routes configured.")

	// Notification routes
	notificationGroup := e.Group("/api/notifications")
	notificationGroup.Use(auth)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, postRepo)
	notificationHandler.RegisterNotificationRoutes(notificationGroup)
	log.Println("Notification routes configured.")

	// Message routes
	messageGroup := e.Group("/api/messages")
	messageGroup.Use(auth)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, notificationRepo, hub, mediaClient)
	messageHandler.RegisterMessageRoutes(messageGroup)
	log.Println("Message routes configured.")

	// Background jobs
	jobs.Start(notificationRepo, userRepo, postRepo)
	log.Println("Background jobs started.")

	log.Println("All routes configured.")
}
