package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/cryptox"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

const sessionIDPrefix = "ses"

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account. A taken email yields common.ErrDuplicateAccount.
func (s *Store) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, common.ErrValidation
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	u := &models.UserRecord{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.timestamp(),
	}

	if err := s.repos.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user signed up", "user_id", u.ID)
	s.emit(AuthEvent{Kind: SignedUp, UserID: u.ID})

	return u.Public(), nil
}

// SignIn checks credentials. Unknown emails and wrong passwords both yield
// common.ErrInvalidCredentials.
func (s *Store) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repos.Users().GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := cryptox.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash unreadable", "user_id", u.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return u.Public(), nil
}

// GetUser returns the public account for id.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repos.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// CreateSession opens a session for userID lasting ttl and emits SignedIn.
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*models.SessionRecord, error) {
	id, err := s.newSessionID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	now := s.timestamp()
	rec := &models.SessionRecord{
		ID:        sessionIDPrefix + id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.repos.Sessions().Create(ctx, rec); err != nil {
		return nil, err
	}

	s.emit(AuthEvent{Kind: SignedIn, UserID: userID, SessionID: rec.ID})

	return rec, nil
}

// GetSession returns a live session. A missing session yields
// common.ErrorNotFound; an expired one is removed, emits SessionExpired and
// yields common.ErrSessionExpired.
func (s *Store) GetSession(ctx context.Context, id string) (*models.SessionRecord, error) {
	rec, err := s.repos.Sessions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.IsExpired(s.now()) {
		if err := s.repos.Sessions().Delete(ctx, id); err != nil {
			s.log.Warn(ctx, "failed to remove expired session", "session_id", id, "error", err)
		}
		s.emit(AuthEvent{Kind: SessionExpired, UserID: rec.UserID, SessionID: id})
		return nil, common.ErrSessionExpired
	}

	return rec, nil
}

// DeleteSession removes a session and emits SignedOut. Deleting a session
// that does not exist is a no-op without an event.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	rec, err := s.repos.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	if err := s.repos.Sessions().Delete(ctx, id); err != nil {
		return err
	}

	s.emit(AuthEvent{Kind: SignedOut, UserID: rec.UserID, SessionID: id})

	return nil
}
