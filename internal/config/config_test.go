package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "JWT_TTL", "DB_DRIVER", "BOT_PAGE_SIZE", "CORS_ORIGINS", "AWS_REGION", "AWS_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Bot.PageSize)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Storage.Enabled())
	assert.Error(t, cfg.ValidateServer(), "missing JWT secret must be rejected")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/blog.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("BOT_PAGE_SIZE", "3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_BUCKET", "images")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/blog.db", cfg.Database.DSN())
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 3, cfg.Bot.PageSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.Storage.Enabled())
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("JWT_TTL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Name: "blog", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u dbname=blog sslmode=disable", d.DSN())

	d.Password = "pw"
	assert.Equal(t, "host=db port=5432 user=u password=pw dbname=blog sslmode=disable", d.DSN())

	d.URL = "postgres://u:pw@db/blog"
	assert.Equal(t, "postgres://u:pw@db/blog", d.DSN())
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{Bot: BotConfig{PageSize: 5}}
	assert.Error(t, cfg.ValidateBot())

	cfg.Bot.Token = "123:abc"
	assert.NoError(t, cfg.ValidateBot())

	cfg.Bot.PageSize = 0
	assert.Error(t, cfg.ValidateBot())
}
