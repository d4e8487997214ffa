package persistence

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// CreateEntry stores rec under a fresh ID, ignoring any ID it carries, and
// stamps both timestamps.
func (s *Store) CreateEntry(ctx context.Context, rec *models.EntryRecord) (*models.EntryRecord, error) {
	e := *rec
	e.ID = s.newID()
	e.CreatedAt = s.timestamp()
	e.UpdatedAt = e.CreatedAt

	if err := s.repos.Entries().Create(ctx, &e); err != nil {
		return nil, err
	}

	return &e, nil
}

// UpdateEntry overwrites the entry rec.ID owned by rec.UserID. UpdatedAt
// always moves forward, even when the clock does not.
//
// A missing entry yields common.ErrorNotFound, another user's entry
// common.ErrForbidden.
func (s *Store) UpdateEntry(ctx context.Context, rec *models.EntryRecord) (*models.EntryRecord, error) {
	cur, err := s.repos.Entries().GetByID(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	if cur.UserID != rec.UserID {
		return nil, common.ErrForbidden
	}

	e := *rec
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = s.timestamp()
	if !e.UpdatedAt.After(cur.UpdatedAt) {
		e.UpdatedAt = cur.UpdatedAt.Add(time.Microsecond)
	}

	if err := s.repos.Entries().Update(ctx, &e); err != nil {
		return nil, err
	}

	return &e, nil
}

// GetEntry returns an entry by ID regardless of owner.
func (s *Store) GetEntry(ctx context.Context, id string) (*models.EntryRecord, error) {
	return s.repos.Entries().GetByID(ctx, id)
}

// ListEntries returns userID's entries, newest date first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]*models.EntryRecord, error) {
	return s.repos.Entries().ListByUser(ctx, userID)
}

// DeleteEntry removes userID's entry id. Missing or foreign IDs are a no-op.
func (s *Store) DeleteEntry(ctx context.Context, userID, id string) error {
	return s.repos.Entries().Delete(ctx, userID, id)
}
