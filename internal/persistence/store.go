// Package persistence is the journal's storage service. It sits on top of
// one repository backend and owns the auth primitives: password hashing,
// session records and auth-state notifications.
package persistence

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repomanager"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Store is safe for concurrent use.
type Store struct {
	repos repomanager.RepositoryManager
	log   logging.Logger

	now          func() time.Time
	newID        func() string
	newSessionID func() (string, error)

	mu        sync.RWMutex
	listeners map[int]AuthListener
	nextSub   int
}

// NewStore builds a Store over repos. The caller keeps ownership of repos
// and closes it.
func NewStore(repos repomanager.RepositoryManager, log logging.Logger) *Store {
	return &Store{
		repos:        repos,
		log:          log.With("module", "persistence"),
		now:          time.Now,
		newID:        uuid.NewString,
		newSessionID: func() (string, error) { return gonanoid.New() },
		listeners:    make(map[int]AuthListener),
	}
}

// timestamp is the current time truncated to the microsecond precision that
// every backend can store.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
