// Package config loads runtime settings from the environment (and an optional
// .env file) for every binary in the repository.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server, bot and tools read at startup
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string
	CORSOrigins []string

	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Bot      BotConfig
	Storage  StorageConfig
	Tracing  TracingConfig
}

// DatabaseConfig selects and addresses the relational store
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// AuthConfig holds the token signing secret and bootstrap admin account
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

// RedisConfig addresses the optional Redis instance
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// BotConfig configures the Telegram catalog bot
type BotConfig struct {
	Token    string
	PageSize int
}

// StorageConfig configures S3 uploads for post images
type StorageConfig struct {
	Region     string
	Bucket     string
	CDNBaseURL string
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled      bool
	Endpoint     string
	SamplingRate float64
}

// Enabled reports whether the storage bucket is configured
func (s StorageConfig) Enabled() bool {
	return s.Region != "" && s.Bucket != ""
}

// Enabled reports whether a Redis host is configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// DSN returns the connection string for the configured driver
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	if d.URL != "" {
		return d.URL
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Name, d.SSLMode)
	if d.Password != "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return dsn
}

// IsDevelopment reports whether ENVIRONMENT is "development"
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "postapi.log")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "postapi")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "postapi.db")

	v.SetDefault("JWT_TTL", "3h")
	v.SetDefault("ADMIN_USERNAME", "admin")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("BOT_PAGE_SIZE", 5)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("OTEL_SAMPLING_RATE", 1.0)
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFile:     v.GetString("LOG_FILE"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			URL:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      ttl,
			AdminUsername: v.GetString("ADMIN_USERNAME"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Bot: BotConfig{
			Token:    v.GetString("TELEGRAM_BOT_TOKEN"),
			PageSize: v.GetInt("BOT_PAGE_SIZE"),
		},
		Storage: StorageConfig{
			Region:     v.GetString("AWS_REGION"),
			Bucket:     v.GetString("AWS_BUCKET"),
			CDNBaseURL: v.GetString("CDN_BASE_URL"),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			Endpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SamplingRate: v.GetFloat64("OTEL_SAMPLING_RATE"),
		},
	}

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// ValidateServer checks the settings the HTTP API cannot start without
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot cannot start without
func (c *Config) ValidateBot() error {
	if c.Bot.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	}
	if c.Bot.PageSize < 1 {
		return errors.New("BOT_PAGE_SIZE must be at least 1")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
