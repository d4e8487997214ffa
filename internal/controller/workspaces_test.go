package controller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvents struct {
	listener persistence.AuthListener
	closed   bool
}

func (s *stubEvents) Subscribe(l persistence.AuthListener) func() {
	s.listener = l
	return func() { s.closed = true }
}

func TestWorkspaces(t *testing.T) {
	events := &stubEvents{}
	w := NewWorkspaces(events, func(userID string) *Dashboard {
		return NewDashboard(userID, newMemEntries(), &stubReflector{}, logging.Nop())
	})
	require.NotNil(t, events.listener)

	s1 := &models.Session{ID: "s1", User: models.User{ID: "u1"}}
	s2 := &models.Session{ID: "s2", User: models.User{ID: "u2"}}

	d1, created := w.Get(s1)
	assert.True(t, created)
	assert.Equal(t, "u1", d1.UserID())

	again, created := w.Get(s1)
	assert.False(t, created)
	assert.Same(t, d1, again)

	d2, _ := w.Get(s2)
	assert.NotSame(t, d1, d2)
	assert.Equal(t, 2, w.Len())

	events.listener(persistence.AuthEvent{Kind: persistence.SignedIn, SessionID: "s1"})
	assert.Equal(t, 2, w.Len())

	events.listener(persistence.AuthEvent{Kind: persistence.SignedOut, SessionID: "s1"})
	assert.Equal(t, 1, w.Len())

	_, created = w.Get(s1)
	assert.True(t, created)

	w.Close()
	assert.True(t, events.closed)
}

func newTestDashboard(userID string) *Dashboard {
	return NewDashboard(userID, newMemEntries(), &stubReflector{}, logging.Nop())
}

func TestWorkspaces_DropsOnSessionExpired(t *testing.T) {
	events := &stubEvents{}
	w := NewWorkspaces(events, newTestDashboard)

	w.Get(&models.Session{ID: "s1", User: models.User{ID: "u1"}})
	require.Equal(t, 1, w.Len())

	events.listener(persistence.AuthEvent{Kind: persistence.SessionExpired, SessionID: "s1"})
	assert.Equal(t, 0, w.Len())
}

func TestWorkspaces_ExpiredSessionsRejectedByStore(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewStore(repomanager.NewBadgerRepositoryManager(repotest.Badger(t)), logging.Nop())
	w := NewWorkspaces(store, newTestDashboard)
	defer w.Close()

	var ids []string
	for i := 0; i < 20; i++ {
		userID := fmt.Sprintf("u-%d", i)
		rec, err := store.CreateSession(ctx, userID, -time.Minute)
		require.NoError(t, err)
		w.Get(&models.Session{ID: rec.ID, User: models.User{ID: userID}})
		ids = append(ids, rec.ID)
	}
	require.Equal(t, 20, w.Len())

	for _, id := range ids {
		_, err := store.GetSession(ctx, id)
		require.ErrorIs(t, err, common.ErrSessionExpired)
	}
	assert.Equal(t, 0, w.Len())
}

func TestWorkspaces_PrunesAbandonedSessions(t *testing.T) {
	w := NewWorkspaces(&stubEvents{}, newTestDashboard)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	w.Get(&models.Session{ID: "old", User: models.User{ID: "u1"}, ExpiresAt: now.Add(time.Hour)})
	w.Get(&models.Session{ID: "new", User: models.User{ID: "u2"}, ExpiresAt: now.Add(3 * time.Hour)})
	require.Equal(t, 2, w.Len())

	now = now.Add(2 * time.Hour)
	_, created := w.Get(&models.Session{ID: "new", User: models.User{ID: "u2"}, ExpiresAt: now.Add(time.Hour)})
	assert.False(t, created)
	assert.Equal(t, 1, w.Len())
}
