package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trattoria-backend/config"
	"trattoria-backend/database"
	"trattoria-backend/firebase"
	"trattoria-backend/routes"
	"trattoria-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	utils.InitLogger()

	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		utils.Logger.Fatalf("Error loading .env file: %v", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		utils.Logger.Fatalf("Environment validation failed: %v", err)
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		utils.Logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		utils.Logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the account, loyalty program and weekly schedule a fresh install needs
	if err := database.CreateDefaultAdmin(db); err != nil {
		utils.Logger.Warnf("Could not create default admin: %v", err)
	}
	if err := database.EnsureLoyaltyProgram(db); err != nil {
		utils.Logger.Warnf("Could not ensure loyalty program: %v", err)
	}
	if err := database.EnsureWeeklySchedule(db); err != nil {
		utils.Logger.Warnf("Could not ensure weekly schedule: %v", err)
	}

	// firebase init
	firebase.Init()
	storageClient := firebase.NewStorageClient()

	// Setup Gin router
	r := gin.Default()

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	// CORS configuration - filter out empty strings from AllowOrigins
	origins := []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")}
	var filteredOrigins []string
	for _, o := range origins {
		if o != "" {
			filteredOrigins = append(filteredOrigins, o)
		}
	}
	if len(filteredOrigins) == 0 {
		filteredOrigins = []string{"http://localhost:3000"}
		utils.Logger.Warn("No CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     filteredOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, storageClient)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		utils.Logger.Infof("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			utils.Logger.Warnf("Error closing database connection: %v", err)
		} else {
			utils.Logger.Info("Database connection closed")
		}
	}

	utils.Logger.Info("Server exited gracefully")
}
