package main

import (
	"fmt"
	"os"

	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/logger"
	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8080"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "postapi",
	Short: "postapi CLI - administer the post API and its database",
	Long: `postapi CLI runs database maintenance (migrate, seed, create-admin)
against the configured database and talks to a running API for post commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if authToken == "" {
			authToken = os.Getenv("POSTAPI_TOKEN")
		}
		if output != "text" && output != "json" {
			return fmt.Errorf("unknown output format %q", output)
		}
		return logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to POSTAPI_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(postsCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
