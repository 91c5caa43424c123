// Package testutil opens throwaway databases for tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MatsuStefanie/cursomc/internal/adapters/repo/postgres"
	"github.com/MatsuStefanie/cursomc/internal/auth"
)

// DemoPassword is the password of every seeded client.
const DemoPassword = "123"

// NewDB returns a migrated in-memory SQLite database with foreign keys on.
// The pool is limited to one connection so every query sees the same
// in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(db))
	return db
}

// NewSeededDB is NewDB plus the demo data.
func NewSeededDB(t testing.TB) (*gorm.DB, *postgres.Seeded) {
	t.Helper()
	db := NewDB(t)
	hash, err := auth.HashPassword(DemoPassword)
	require.NoError(t, err)
	seeded, err := postgres.Seed(db, hash)
	require.NoError(t, err)
	return db, seeded
}

// Count returns the number of rows of model.
func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
