package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/metrics"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// EntryService is the typed entry repository used by the front-ends. Every
// operation is scoped to the calling user.
type EntryService struct {
	store   EntryStore
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewEntryService(store EntryStore, log logging.Logger) *EntryService {
	return &EntryService{
		store:   store,
		log:     log.With("module", "entries"),
		metrics: metrics.NewMetrics(),
	}
}

// List returns userID's entries, newest date first. It never returns nil.
func (s *EntryService) List(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	recs, err := s.store.ListEntries(ctx, userID)
	if err != nil {
		return nil, storageError(err)
	}

	out := make([]models.JournalEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

// Save creates or updates entry on behalf of ownerUserID and returns the
// stored form.
//
// An empty ID creates. An ID the caller owns updates in place. An unknown
// ID creates a new entry under a fresh ID. Another user's ID fails with
// common.ErrForbidden.
func (s *EntryService) Save(ctx context.Context, entry models.JournalEntry, ownerUserID string) (*models.JournalEntry, error) {
	if strings.TrimSpace(entry.Title) == "" || strings.TrimSpace(entry.Content) == "" {
		return nil, common.ErrValidation
	}

	rec, err := toRecord(&entry, ownerUserID)
	if err != nil {
		return nil, err
	}

	var saved *models.EntryRecord
	op := "update"

	if rec.ID != "" {
		saved, err = s.store.UpdateEntry(ctx, rec)
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "entry not found, creating instead", "entry_id", rec.ID)
			saved, err = nil, nil
		}
	}
	if err == nil && saved == nil {
		op = "create"
		saved, err = s.store.CreateEntry(ctx, rec)
	}
	if err != nil {
		if !errors.Is(err, common.ErrForbidden) {
			s.log.Error(ctx, "entry save failed", "user_id", ownerUserID, "error", err)
		}
		return nil, storageError(err)
	}

	s.metrics.EntryWritesTotal.WithLabelValues(op).Inc()

	out := fromRecord(saved)
	return &out, nil
}

// Get returns the entry if userID owns it, common.ErrorNotFound otherwise.
func (s *EntryService) Get(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	rec, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if rec.UserID != userID {
		return nil, common.ErrorNotFound
	}

	out := fromRecord(rec)
	return &out, nil
}

// Delete removes userID's entry. Missing or foreign IDs succeed silently.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteEntry(ctx, userID, id); err != nil {
		s.log.Error(ctx, "entry delete failed", "entry_id", id, "error", err)
		return storageError(err)
	}

	s.metrics.EntryWritesTotal.WithLabelValues("delete").Inc()
	return nil
}
