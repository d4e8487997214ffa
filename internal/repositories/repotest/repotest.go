// Package repotest opens migrated throwaway stores for repository tests.
package repotest

import (
	"database/sql"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/kvx"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// SQLiteDSN is an in-memory database with foreign keys enforced.
const SQLiteDSN = "file::memory:?_pragma=foreign_keys(1)"

// SQLite returns an in-memory SQLite database with the real schema applied.
// The pool is pinned to one connection because each in-memory connection
// is a separate database.
func SQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", SQLiteDSN)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.SQLite)
	require.NoError(t, goose.SetDialect("sqlite3"))
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.Up(db, "sqlite"))

	return db
}

// Badger returns an in-memory Badger database.
func Badger(t *testing.T) *badger.DB {
	t.Helper()

	db, err := kvx.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
