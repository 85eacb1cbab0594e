package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NMGRL/trayclassifier/internal/api"
	"github.com/NMGRL/trayclassifier/internal/api/middleware"
	"github.com/NMGRL/trayclassifier/internal/config"
	"github.com/NMGRL/trayclassifier/internal/logger"
	"github.com/NMGRL/trayclassifier/internal/repository"
	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/NMGRL/trayclassifier/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database and seed the label vocabulary
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	if err := repository.Seed(db); err != nil {
		appLogger.WithError(err).Fatal("Failed to seed database")
	}

	// Initialize repositories
	imageRepo := repository.NewImageRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	// Initialize blob storage (nil for the inline driver)
	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx := context.Background()
	if blobs != nil {
		if err := blobs.EnsureBucket(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(
		imageRepo, labelRepo, userRepo, assignmentRepo, blobs, appLogger,
	)
	reportService := service.NewReportService(imageRepo, assignmentRepo, catalogService)

	// Setup router
	router := api.SetupRouter(catalogService, reportService, cfg.Server.Mode, middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
