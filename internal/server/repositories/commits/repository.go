// Package commits persists commit records pulled from the commits provider.
package commits

import (
	"context"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Insert stores c unless (owner, sha) already exists. It reports whether
	// a row was written; a duplicate is not an error.
	Insert(ctx context.Context, c *models.CommitRecord) (bool, error)

	// CommittedAt lists commit timestamps of ownerID in [from, to).
	CommittedAt(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error)
}
