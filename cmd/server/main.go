package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/api"
	"github.com/hoopiq/courtcast/internal/api/handlers"
	"github.com/hoopiq/courtcast/internal/api/middleware"
	"github.com/hoopiq/courtcast/internal/models"
	"github.com/hoopiq/courtcast/internal/prediction"
	"github.com/hoopiq/courtcast/internal/services"
	"github.com/hoopiq/courtcast/pkg/config"
	"github.com/hoopiq/courtcast/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database if configured; the prediction audit log is
	// optional and serving works without it.
	var db *database.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.AutoMigrate(&models.Prediction{}); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}
	} else {
		logger.Info("DATABASE_URL not set; prediction audit log disabled")
	}

	// Connect to Redis if configured; the prediction cache is optional.
	var cacheService *services.CacheService
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opt)
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cacheService = services.NewCacheService(redisClient)
	} else {
		logger.Info("REDIS_URL not set; prediction cache disabled")
	}

	// Load the team stats lookup. Missing table is survivable: every
	// identifier then resolves to the league-average default.
	store, err := prediction.LoadTeamStatsCSV(cfg.TeamStatsCSVPath, logger)
	if err != nil {
		logger.WithError(err).Warn("Team stats table unavailable; identifiers resolve to league averages")
		store = prediction.NewTeamStatsStore()
	}

	// Prediction service plus the artifact watcher that keeps its model
	// pair current.
	predictionService := prediction.NewService(store, logger)
	watcher := services.NewModelWatcher(cfg.ModelDir, cfg.ModelBaseName, predictionService, logger)
	watcher.LoadInitial()
	if err := watcher.Start(cfg.ModelReloadInterval); err != nil {
		logrus.Fatalf("Failed to start model watcher: %v", err)
	}
	defer watcher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(predictionService)
	router.GET("/health", healthHandler.GetHealth)

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	api.SetupRoutes(apiV1, predictionService, cacheService, db, cfg, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"port":         cfg.Port,
			"environment":  cfg.Env,
			"model_loaded": predictionService.ModelLoaded(),
		}).Info("Starting courtcast prediction service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
