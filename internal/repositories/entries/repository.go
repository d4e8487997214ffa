// Package entries stores journal entry records.
package entries

import (
	"context"

	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// Repository is implemented by every storage backend.
//
// ListByUser orders by entry date, newest first, then by UpdatedAt, newest
// first. Update and GetByID return common.ErrorNotFound for a missing ID.
// Delete is scoped to the owner and succeeds when nothing matches.
type Repository interface {
	Create(ctx context.Context, e *models.EntryRecord) error
	Update(ctx context.Context, e *models.EntryRecord) error
	GetByID(ctx context.Context, id string) (*models.EntryRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*models.EntryRecord, error)
	Delete(ctx context.Context, userID, id string) error
}
