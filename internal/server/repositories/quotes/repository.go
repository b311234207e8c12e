// Package quotes persists the process-wide quote of each calendar date.
// Quotes have no owner; the first successful writer of a date wins.
package quotes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// InsertIfAbsent stores q for q.Date unless that date already has a
	// quote. A losing writer gets (false, nil).
	InsertIfAbsent(ctx context.Context, q *models.QuoteEntry) (bool, error)

	// FindByDate returns the quote of day, or common.ErrorNotFound.
	FindByDate(ctx context.Context, day time.Time) (*models.QuoteEntry, error)

	// LatestBefore returns the newest quote dated strictly before day, or
	// common.ErrorNotFound.
	LatestBefore(ctx context.Context, day time.Time) (*models.QuoteEntry, error)
}
