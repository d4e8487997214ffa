// Package services holds the journal's use cases: authentication with
// explicit sessions and the typed entry repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/persistence"
)

// AuthStore is the part of the persistence service used by AuthService.
type AuthStore interface {
	SignUp(ctx context.Context, name, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateSession(ctx context.Context, userID string, ttl time.Duration) (*models.SessionRecord, error)
	GetSession(ctx context.Context, id string) (*models.SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	Subscribe(l persistence.AuthListener) func()
}

// EntryStore is the part of the persistence service used by EntryService.
type EntryStore interface {
	CreateEntry(ctx context.Context, rec *models.EntryRecord) (*models.EntryRecord, error)
	UpdateEntry(ctx context.Context, rec *models.EntryRecord) (*models.EntryRecord, error)
	GetEntry(ctx context.Context, id string) (*models.EntryRecord, error)
	ListEntries(ctx context.Context, userID string) ([]*models.EntryRecord, error)
	DeleteEntry(ctx context.Context, userID, id string) error
}

var _ AuthStore = (*persistence.Store)(nil)
var _ EntryStore = (*persistence.Store)(nil)

// domainErrors pass through services untouched; anything else coming out
// of storage is reported as common.ErrPersistence.
var domainErrors = []error{
	common.ErrorNotFound,
	common.ErrForbidden,
	common.ErrValidation,
	common.ErrDuplicateAccount,
	common.ErrInvalidCredentials,
	common.ErrSessionExpired,
	common.ErrorUnauthorized,
}

func storageError(err error) error {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrPersistence, err)
}
