package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/repositories/kvx"
)

const userPrefix = "user:"

// BadgerRepository stores users as JSON under user:<id> with an
// email index at user:idx:email:<email> holding the ID.
type BadgerRepository struct {
	db *badger.DB
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Create(_ context.Context, user *models.UserRecord) error {
	emailKey := kvx.IndexKey(userPrefix, "email", user.Email)

	err := r.db.Update(func(txn *badger.Txn) error {
		taken, err := kvx.Exists(txn, emailKey)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrDuplicateAccount
		}

		if err := kvx.Set(txn, kvx.Key(userPrefix, user.ID), user); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(user.ID))
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return err
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *BadgerRepository) GetByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	var id string

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(kvx.IndexKey(userPrefix, "email", email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *BadgerRepository) GetByID(_ context.Context, id string) (*models.UserRecord, error) {
	u := &models.UserRecord{}

	err := r.db.View(func(txn *badger.Txn) error {
		return kvx.Get(txn, kvx.Key(userPrefix, id), u)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}
