package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogworks/postapi/internal/bot"
	"github.com/blogworks/postapi/internal/cache"
	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/database"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/metrics"
	"github.com/blogworks/postapi/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	if err := cfg.ValidateBot(); err != nil {
		logger.FatalWithFields("Invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(ctx, "postapi-bot", cfg.Environment, cfg.Tracing)
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

	if err := database.Initialize(cfg.Database, false); err != nil {
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

	var cursors bot.CursorStore = bot.NewMemoryCursorStore()
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.WarnWithFields("Redis unavailable, chat positions are kept in memory", err)
		} else {
			defer redisClient.Close()
			cursors = bot.NewRedisCursorStore(redisClient, bot.DefaultCursorTTL)
		}
	}

	dispatcher := bot.NewDispatcher(bot.NewGormCatalog(db), cursors, cfg.Bot.PageSize)
	runner, err := bot.NewRunner(cfg.Bot.Token, dispatcher, cfg.IsDevelopment() && cfg.LogLevel == "debug")
	if err != nil {
		logger.FatalWithFields("Failed to connect to Telegram", err)
	}

	logger.Log.Info("Bot polling for updates", zap.Int("page_size", cfg.Bot.PageSize))
	if err := runner.Run(ctx); err != nil {
		logger.ErrorWithFields("Bot stopped with error", err)
	}
}
