// Package locks implements the per-(owner, source) lease lock that keeps two
// sync runs for the same pair from overlapping. A lease expires on its own,
// so a crashed holder never blocks future runs for longer than its TTL.
package locks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Acquire takes the lease for holder until now+ttl. It reports false when
	// another holder's lease is still live at now.
	Acquire(ctx context.Context, ownerID string, source models.Source, holder string, now time.Time, ttl time.Duration) (bool, error)

	// Release drops the lease if holder still owns it.
	Release(ctx context.Context, ownerID string, source models.Source, holder string) error
}
