package repomanager

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/entries"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/sessions"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/users"
)

// BadgerRepositoryManager vends repositories over one embedded Badger store.
type BadgerRepositoryManager struct {
	db *badger.DB
}

func NewBadgerRepositoryManager(db *badger.DB) *BadgerRepositoryManager {
	return &BadgerRepositoryManager{db: db}
}

// RunMigrations is a no-op: the key-value layout has no schema.
func (m *BadgerRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *BadgerRepositoryManager) Users() users.Repository {
	return users.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) Entries() entries.Repository {
	return entries.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) Sessions() sessions.Repository {
	return sessions.NewBadgerRepository(m.db)
}

func (m *BadgerRepositoryManager) Close() error {
	return m.db.Close()
}
