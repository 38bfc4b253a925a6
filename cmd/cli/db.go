package main

import (
	"fmt"

	"github.com/blogworks/postapi/internal/auth"
	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/database"
	"github.com/blogworks/postapi/internal/seed"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedValue     int64
	adminUsername string
	adminPassword string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:       "seed [dev|test|clean]",
	Short:     "Fill the database with sample data",
	Long:      "dev inserts realistic random data, test inserts the small fixed data set, clean removes posts, comments and the catalog.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"dev", "test", "clean"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}

		seeder := seed.NewSeeder(db, seedValue)
		switch args[0] {
		case "dev":
			err = seeder.SeedDev()
		case "test":
			err = seeder.SeedTest()
		case "clean":
			err = seeder.Clean()
		}
		if err != nil {
			return err
		}
		fmt.Printf("Seed %s completed\n", args[0])
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user allowed to call the authenticated endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminPassword == "" {
			return fmt.Errorf("--username and --password are required")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}

		service := auth.NewService(db, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
		user, err := service.CreateUser(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Random seed (0 picks one)")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password")
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if err := database.Initialize(cfg.Database, false); err != nil {
		return nil, err
	}
	return database.DB, nil
}
