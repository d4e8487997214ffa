package repomanager

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/dmitrijs2005/mindjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/migrations"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/sessions"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// migrate points goose at the embedded schema for dialect and applies it.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dialect, dir string) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, dir)
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct {
	db *sql.DB
}

func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrate(ctx, m.db, migrations.Postgres, "pgx", "postgres")
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Entries() entries.Repository {
	return entries.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return sessions.NewPostgresRepository(m.db)
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

func NewSQLiteRepositoryManager(db *sql.DB) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{db: db}
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrate(ctx, m.db, migrations.SQLite, "sqlite3", "sqlite")
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return users.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) Entries() entries.Repository {
	return entries.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) Sessions() sessions.Repository {
	return sessions.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
