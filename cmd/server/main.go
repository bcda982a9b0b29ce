package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"osa-partnership/internal/adapters/http/middleware"
	"osa-partnership/internal/adapters/http/routes"
	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/config"
	"osa-partnership/internal/core/services"
	"osa-partnership/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"

	_ "osa-partnership/docs" // Swagger docs
)

// @title OSA Partnership API
// @version 1.0
// @description Department partnership registry of the Office of Student Affairs

// @contact.name OSA Support
// @contact.email osa@example.edu

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logOutput, logCloser := config.SetupLogging(cfg.Log)
	defer logCloser.Close()

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Superuser and placeholder department
	if err := config.NewSeeder(db, cfg.Seed).Run(context.Background()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	logos, err := storage.NewOSLogoStore(cfg.Media.Root)
	if err != nil {
		log.Fatalf("❌ Failed to prepare media storage: %v", err)
	}

	// Nightly cleanup of expired and revoked refresh tokens
	cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db), cfg.Cron.Cleanup)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "OSA Partnership API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    storage.MaxLogoBytes + 1<<20,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, logOutput)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, logos, routes.Options{})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
