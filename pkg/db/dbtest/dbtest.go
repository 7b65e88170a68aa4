// Package dbtest opens in-memory SQLite databases carrying the marketplace
// schema for repository and service tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
)

// Open returns a fresh database with every table created. The pool is pinned
// to one connection so transactions see the same in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), db.GormConfig())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error, stmt)
	}
	return conn
}

// Client wraps Open in a db.Client for services that run transactions.
func Client(t testing.TB) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromConn(conn), conn
}
