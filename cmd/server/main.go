package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/mehedi83/threads-clone/backend/internal/router"
	"github.com/mehedi83/threads-clone/backend/pkg/config"
	"github.com/mehedi83/threads-clone/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	mgClient, err := config.InitMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer config.CloseMongo(mgClient)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, mgClient, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
