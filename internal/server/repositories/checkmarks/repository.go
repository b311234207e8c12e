// Package checkmarks persists the daily wins of each owner and the derived
// checkmark flag.
package checkmarks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Upsert writes the owner's record for d.Day, replacing any earlier one.
	Upsert(ctx context.Context, d *models.CheckmarkDay) error

	// Find returns the record of one day, or common.ErrorNotFound.
	Find(ctx context.Context, ownerID string, day time.Time) (*models.CheckmarkDay, error)

	// CheckmarkDates returns every date of ownerID with has_checkmark set.
	CheckmarkDates(ctx context.Context, ownerID string) ([]time.Time, error)
}
