// Package users stores accounts. Emails are stored as given; callers
// normalize them before calling in.
package users

import (
	"context"

	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// Repository is implemented by every storage backend.
//
// Create returns common.ErrDuplicateAccount when the email is taken.
// Lookups return common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, user *models.UserRecord) error
	GetByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	GetByID(ctx context.Context, id string) (*models.UserRecord, error)
}
