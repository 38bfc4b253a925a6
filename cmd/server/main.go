package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogworks/postapi/internal/auth"
	"github.com/blogworks/postapi/internal/cache"
	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/database"
	"github.com/blogworks/postapi/internal/handlers"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/middleware"
	"github.com/blogworks/postapi/internal/posts"
	"github.com/blogworks/postapi/internal/storage"
	"github.com/blogworks/postapi/internal/telemetry"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("=== postapi server starting ===", zap.String("environment", cfg.Environment))

	if err := cfg.ValidateServer(); err != nil {
		logger.FatalWithFields("Invalid configuration", err)
	}

	ctx := context.Background()

	// Tracing must be installed before the GORM plugin picks up the global provider
	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(ctx, "postapi", cfg.Environment, cfg.Tracing)
		if err != nil {
			logger.WarnWithFields("Tracing disabled", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(shutdownCtx)
			}()
		}
	}

	metrics.Initialize()

	if err := database.Initialize(cfg.Database, cfg.IsDevelopment()); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()
	db := database.DB

	if err := db.Use(telemetry.GORMPlugin(nil)); err != nil {
		logger.WarnWithFields("Failed to install database instrumentation", err)
	}

	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	authService := auth.NewService(db, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.FatalWithFields("Failed to create admin user", err)
	}

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.WarnWithFields("Redis unavailable, rate limits fall back to memory", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	h := handlers.NewHandlers(posts.NewPostService(db), posts.NewCommentService(db), authService)

	if cfg.Storage.Enabled() {
		uploader, err := storage.NewS3Uploader(ctx, cfg.Storage)
		if err != nil {
			logger.WarnWithFields("Failed to initialize S3 uploader, image uploads disabled", err)
		} else {
			if err := uploader.CheckBucketAccess(ctx); err != nil {
				logger.WarnWithFields("S3 bucket access failed", err)
			}
			h.SetImageUploader(uploader)
		}
	} else {
		logger.Log.Info("AWS_REGION or AWS_BUCKET not set, image uploads disabled")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.TracingMiddleware("postapi")...)
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", handlers.Health(map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error { return database.Health(db) },
		"redis": func(ctx context.Context) error {
			if redisClient == nil {
				return nil
			}
			return redisClient.Ping(ctx)
		},
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimitMiddleware(redisClient, middleware.DefaultRateLimitConfig()))
	h.RegisterRoutes(api, handlers.RouteLimits{
		Login:  middleware.RedisRateLimitMiddleware(redisClient, middleware.AuthRateLimitConfig()),
		Upload: middleware.RedisRateLimitMiddleware(redisClient, middleware.UploadRateLimitConfig()),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}
