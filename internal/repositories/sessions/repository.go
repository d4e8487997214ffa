// Package sessions stores sign-in sessions. Expiry is judged by the caller.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// Repository is implemented by every storage backend. GetByID returns
// common.ErrorNotFound for a missing session; Delete of a missing session
// succeeds.
type Repository interface {
	Create(ctx context.Context, s *models.SessionRecord) error
	GetByID(ctx context.Context, id string) (*models.SessionRecord, error)
	Delete(ctx context.Context, id string) error
}
