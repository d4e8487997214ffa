package persistence

// AuthEventKind names an auth-state transition.
type AuthEventKind string

const (
	SignedUp  AuthEventKind = "signed_up"
	SignedIn  AuthEventKind = "signed_in"
	SignedOut AuthEventKind = "signed_out"
	// SessionExpired is emitted when a lookup finds and removes an expired
	// session.
	SessionExpired AuthEventKind = "session_expired"
)

// AuthEvent is delivered to listeners after the change is stored.
type AuthEvent struct {
	Kind      AuthEventKind
	UserID    string
	SessionID string
}

// AuthListener receives auth events synchronously on the caller's
// goroutine. It must not call back into Subscribe.
type AuthListener func(AuthEvent)

// Subscribe registers l and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store) Subscribe(l AuthListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) emit(e AuthEvent) {
	s.mu.RLock()
	ls := make([]AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}
