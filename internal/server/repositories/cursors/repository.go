// Package cursors stores the resumable provider cursor of the last
// completed sync run per (owner, source).
package cursors

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Get returns the stored cursor, or "" when there is none.
	Get(ctx context.Context, ownerID string, source models.Source) (string, error)
	Save(ctx context.Context, ownerID string, source models.Source, cursor string) error
	Delete(ctx context.Context, ownerID string, source models.Source) error
}
