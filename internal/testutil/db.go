// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database that lives for the test
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, false)
	require.NoError(t, err)
	db.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SteppingClock returns a clock that advances one second per call, starting
// one second after start
func SteppingClock(start time.Time) func() time.Time {
	var n int
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}
