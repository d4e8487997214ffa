// Package repomanager wires the repositories of one storage backend and
// owns its connection and schema migrations.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/kvx"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/sessions"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/users"
)

// RepositoryManager vends the repositories of a single backend. Backends are
// never mixed: every repository of a manager shares one store.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Entries() entries.Repository
	Sessions() sessions.Repository
	Close() error
}

// Open connects to the backend selected by cfg.Backend. Migrations are not
// run; call RunMigrations before first use.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		db, err := kvx.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewBadgerRepositoryManager(db), nil

	case config.BackendSQLite:
		db, err := sqlOpen("sqlite", sqliteDSN(cfg.SQLiteDSN))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// modernc serializes writers anyway; one connection also keeps
		// :memory: databases coherent.
		db.SetMaxOpenConns(1)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlite: %w", err)
		}
		return NewSQLiteRepositoryManager(db), nil

	case config.BackendPostgres:
		db, err := sqlOpen("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return NewPostgresRepositoryManager(db), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// sqliteDSN turns a bare file name into a URI with foreign keys and a busy
// timeout enabled. DSNs that already carry parameters are left alone.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
