package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/database"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/blogworks/postapi/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var seedValue int64
	if v := os.Getenv("SEED"); v != "" {
		if seedValue, err = strconv.ParseInt(v, 10, 64); err != nil {
			logger.FatalWithFields("Invalid SEED", err)
		}
	}

	if command != "dev" && command != "test" && command != "clean" {
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with the fixed scenario data")
		fmt.Println("  clean - Remove posts, comments and the catalog (use with caution)")
		os.Exit(1)
	}

	if err := database.Initialize(cfg.Database, false); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	seeder := seed.NewSeeder(database.DB, seedValue)
	switch command {
	case "dev":
		err = seeder.SeedDev()
	case "test":
		err = seeder.SeedTest()
	case "clean":
		err = seeder.Clean()
	}
	if err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}

	logger.Log.Info("Seeding finished", zap.String("command", command))
}
