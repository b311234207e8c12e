// Package events persists calendar events. Unlike commits, events are
// mutable upstream: a re-sync overwrites the stored fields.
package events

import (
	"context"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Upsert inserts or overwrites e. It reports true when a new row was created.
	Upsert(ctx context.Context, e *models.CalendarEvent) (bool, error)

	// Delete removes an event cancelled upstream. It reports whether a row existed.
	Delete(ctx context.Context, ownerID, sourceEventID string) (bool, error)

	// Starts lists the starts of ownerID's events with start_at in [from, to).
	Starts(ctx context.Context, ownerID string, from, to time.Time) ([]models.EventStart, error)
}
