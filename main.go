package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/cmd"
	"github.com/tohidahmed666-design/AssetMGMT/internal/config"
	"github.com/tohidahmed666-design/AssetMGMT/internal/container"
	"github.com/tohidahmed666-design/AssetMGMT/internal/database"
	"github.com/tohidahmed666-design/AssetMGMT/internal/database/migration"
	"github.com/tohidahmed666-design/AssetMGMT/internal/logger"
	"github.com/tohidahmed666-design/AssetMGMT/internal/middleware"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Run subcommands (manual migrations) before the server starts.
	cmd.Execute(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zapLog := logger.NewLogger()
	defer zapLog.Sync()

	if err := migration.Migrate(cfg.DatabaseURL, fmt.Sprintf("file://%s", cfg.MigrationsDir), zapLog); err != nil {
		zapLog.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zapLog.Fatal("Failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	zapLog.Info("Connected to the database successfully")

	app, err := container.NewAppContainer(db, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to build application container", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(zapLog))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	router.Static("/"+app.Uploads.Dir(), app.Uploads.Dir())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(app.Tokens.JWTMiddleware())

	app.AuthHandler.RegisterRoutes(router)
	app.AssetHandler.RegisterRoutes(router)
	app.UserHandler.RegisterRoutes(protected)
	app.LogHandler.RegisterRoutes(protected)
	app.ContactHandler.RegisterRoutes(router, protected)

	zapLog.Info("Starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zapLog.Fatal("Server stopped", zap.Error(err))
	}
}
