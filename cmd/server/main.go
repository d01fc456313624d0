package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"geomaqui-os/internal/adapters/http/middleware"
	"geomaqui-os/internal/adapters/http/routes"
	"geomaqui-os/internal/adapters/persistence/models"
	"geomaqui-os/internal/adapters/persistence/repositories"
	"geomaqui-os/internal/config"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/core/state"

	"github.com/gofiber/fiber/v2"

	_ "geomaqui-os/docs" // Swagger docs
)

// @title Click Geomaqui OS API
// @version 1.0
// @description Gestão de ordens de serviço Click Geomaqui
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email suporte@clickgeomaqui.com.br

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host os.clickgeomaqui.com.br
// @BasePath /api/v1
// @schemes https

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

	// Load the application snapshot (seeds the admin account on first run)
	snapshotRepo := repositories.NewSnapshotRepository(db)
	store, err := state.Open(context.Background(), repositories.NewSnapshotPersister(snapshotRepo, state.SnapshotKey))
	if err != nil {
		log.Fatalf("❌ Failed to open application state: %v", err)
	}

	// Start nightly snapshot backups
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	backupService := services.NewBackupService(store, snapshotRepo, refreshTokenRepo)
	if err := backupService.Start(cfg.Business.BackupSpec); err != nil {
		log.Fatalf("❌ Failed to start backup scheduler: %v", err)
	}
	defer backupService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Click Geomaqui OS API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, store and cfg for dependency injection)
	routes.Setup(app, db, store, cfg)

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
