package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/kvx"
)

const sessionPrefix = "session:"

// BadgerRepository stores sessions under session:<id>. Entries carry a
// Badger TTL a little past expiry so abandoned sessions are collected.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

// ttlGrace keeps an expired record readable long enough for callers to
// tell "expired" from "never existed".
const ttlGrace = time.Hour

func (r *BadgerRepository) Create(_ context.Context, s *models.SessionRecord) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		entry := badger.NewEntry(kvx.Key(sessionPrefix, s.ID), data)
		if ttl := time.Until(s.ExpiresAt) + ttlGrace; ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *BadgerRepository) GetByID(_ context.Context, id string) (*models.SessionRecord, error) {
	s := &models.SessionRecord{}

	err := r.db.View(func(txn *badger.Txn) error {
		return kvx.Get(txn, kvx.Key(sessionPrefix, id), s)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *BadgerRepository) Delete(_ context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return kvx.Delete(txn, kvx.Key(sessionPrefix, id))
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
