package controller

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
)

// AuthEvents is the source of sign-out and expiry notifications.
type AuthEvents interface {
	Subscribe(l persistence.AuthListener) (unsubscribe func())
}

type workspace struct {
	dashboard *Dashboard
	expiresAt time.Time
}

// Workspaces keeps one dashboard per web session. A dashboard is dropped
// as soon as its session signs out or is found expired. Dashboards of
// abandoned sessions are pruned on the next Get after their expiry.
type Workspaces struct {
	newDashboard func(userID string) *Dashboard
	unsubscribe  func()
	now          func() time.Time

	mu   sync.Mutex
	byID map[string]workspace
}

func NewWorkspaces(events AuthEvents, newDashboard func(userID string) *Dashboard) *Workspaces {
	w := &Workspaces{
		newDashboard: newDashboard,
		now:          time.Now,
		byID:         make(map[string]workspace),
	}
	w.unsubscribe = events.Subscribe(func(e persistence.AuthEvent) {
		switch e.Kind {
		case persistence.SignedOut, persistence.SessionExpired:
			w.Drop(e.SessionID)
		}
	})
	return w
}

// Get returns the dashboard of s, creating it on first use. created
// reports whether it is new and still needs a Load.
func (w *Workspaces) Get(s *models.Session) (d *Dashboard, created bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked()

	if ws, ok := w.byID[s.ID]; ok && ws.dashboard.UserID() == s.User.ID {
		return ws.dashboard, false
	}
	d = w.newDashboard(s.User.ID)
	w.byID[s.ID] = workspace{dashboard: d, expiresAt: s.ExpiresAt}
	return d, true
}

// pruneLocked drops dashboards whose session has expired.
func (w *Workspaces) pruneLocked() {
	now := w.now()
	for id, ws := range w.byID {
		if !ws.expiresAt.IsZero() && !now.Before(ws.expiresAt) {
			delete(w.byID, id)
		}
	}
}

// Drop forgets the dashboard of sessionID.
func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	delete(w.byID, sessionID)
	w.mu.Unlock()
}

// Len returns the number of live dashboards.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.byID)
}

// Close stops listening for auth events.
func (w *Workspaces) Close() {
	w.unsubscribe()
}
