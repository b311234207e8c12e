// Package settings stores per-owner preferences such as the time zone that
// defines an owner's "today".
package settings

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type Repository interface {
	// Get returns the owner's settings, or common.ErrorNotFound.
	Get(ctx context.Context, ownerID string) (*models.UserSettings, error)
	Save(ctx context.Context, s *models.UserSettings) error
}
