package entries

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/kvx"
)

const entryPrefix = "entry:"

// BadgerRepository stores entries as JSON under entry:<id>. The owner index
// entry:idx:user:<userID>:<id> makes ListByUser a prefix scan.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func ownerKey(userID, id string) []byte {
	return kvx.IndexKey(entryPrefix, "user", userID+":"+id)
}

func (r *BadgerRepository) Create(_ context.Context, e *models.EntryRecord) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := kvx.Set(txn, kvx.Key(entryPrefix, e.ID), e); err != nil {
			return err
		}
		return txn.Set(ownerKey(e.UserID, e.ID), []byte{})
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *BadgerRepository) Update(_ context.Context, e *models.EntryRecord) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var cur models.EntryRecord
		if err := kvx.Get(txn, kvx.Key(entryPrefix, e.ID), &cur); err != nil {
			return err
		}
		if cur.UserID != e.UserID {
			return badger.ErrKeyNotFound
		}

		next := *e
		next.CreatedAt = cur.CreatedAt
		return kvx.Set(txn, kvx.Key(entryPrefix, e.ID), &next)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *BadgerRepository) GetByID(_ context.Context, id string) (*models.EntryRecord, error) {
	e := &models.EntryRecord{}

	err := r.db.View(func(txn *badger.Txn) error {
		return kvx.Get(txn, kvx.Key(entryPrefix, id), e)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *BadgerRepository) ListByUser(_ context.Context, userID string) ([]*models.EntryRecord, error) {
	result := make([]*models.EntryRecord, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range kvx.ScanKeys(txn, ownerKey(userID, "")) {
			e := &models.EntryRecord{}
			if err := kvx.Get(txn, kvx.Key(entryPrefix, id), e); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].EntryDate.Equal(result[j].EntryDate) {
			return result[i].EntryDate.After(result[j].EntryDate)
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *BadgerRepository) Delete(_ context.Context, userID, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		var cur models.EntryRecord
		if err := kvx.Get(txn, kvx.Key(entryPrefix, id), &cur); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		if cur.UserID != userID {
			return nil
		}

		if err := kvx.Delete(txn, kvx.Key(entryPrefix, id)); err != nil {
			return err
		}
		return kvx.Delete(txn, ownerKey(userID, id))
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
