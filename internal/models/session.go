package models

import "time"

// SessionRecord is a persisted sign-in. A client session is valid only while
// its record exists and has not expired.
type SessionRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at t.
func (s *SessionRecord) IsExpired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Session is the authenticated identity handed to the front-ends.
type Session struct {
	ID        string
	User      User
	Token     string
	ExpiresAt time.Time
}
