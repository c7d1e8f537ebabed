package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agropack/artworkflow/backend/config"
	"github.com/agropack/artworkflow/backend/handler"
	"github.com/agropack/artworkflow/backend/middleware"
	"github.com/agropack/artworkflow/backend/pkg/logger"
	"github.com/agropack/artworkflow/backend/service"
	"github.com/agropack/artworkflow/backend/workflow"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize the document library
	library, err := service.NewArtworkLibrary(&cfg.Minio, cfg.Upload)
	if err != nil {
		slog.Error("failed to initialize document library", "error", err)
		os.Exit(1)
	}
	if err := library.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure document library bucket", "error", err)
		os.Exit(1)
	}

	// Initialize stores and the workflow engine
	store := service.NewRecordStore(&cfg.Store)
	vendorFiles := service.NewVendorFileStore()
	catalog := workflow.NewCatalog()
	engine := workflow.NewEngine(catalog, store)

	approvals := service.NewApprovalService(store, library, engine)
	vendors := service.NewVendorService(store, vendorFiles, library, catalog, cfg.Vendors)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	recordHandler := handler.NewRecordHandler(store, catalog)
	workflowHandler := handler.NewWorkflowHandler(engine)
	documentHandler := handler.NewDocumentHandler(library, approvals)
	approvalHandler := handler.NewApprovalHandler(approvals)
	vendorHandler := handler.NewVendorHandler(vendors)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging
	router.Use(corsMiddleware())           // CORS
	router.Use(middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateWindow()))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/stages", recordHandler.Stages)
		protected.GET("/categories", recordHandler.Categories)

		protected.POST("/records", recordHandler.Create)
		protected.GET("/records", recordHandler.List)
		protected.GET("/records/stats", recordHandler.Stats)
		protected.GET("/records/:id", recordHandler.Get)
		protected.PATCH("/records/:id", recordHandler.Update)

		protected.POST("/records/:id/stages/:pos/start", workflowHandler.Start)
		protected.POST("/records/:id/stages/:pos/approve", workflowHandler.Approve)
		protected.POST("/records/:id/stages/:pos/reject", workflowHandler.Reject)

		protected.POST("/records/:id/documents/:category", documentHandler.Upload)
		protected.GET("/records/:id/documents/:category", documentHandler.List)
		protected.GET("/records/:id/documents/:category/download", documentHandler.Download)

		protected.POST("/records/:id/approvals/:category", approvalHandler.Decide)
		protected.POST("/records/:id/approvals/retry", approvalHandler.Retry)

		protected.GET("/vendors", vendorHandler.List)
		protected.GET("/vendors/categories/:category/requirements", vendorHandler.Requirements)
		protected.POST("/records/:id/vendor", vendorHandler.Assign)

		protected.GET("/vendor/records", vendorHandler.AssignedRecords)
		protected.GET("/vendor/files", vendorHandler.Submissions)
		protected.POST("/vendor/records/:id/files/:fileType", vendorHandler.SubmitFile)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
