// Package credentials declares the storage contract for encrypted sync
// credentials. Only ciphertext crosses this boundary.
package credentials

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

// Repository stores one encrypted credential per (owner, source).
type Repository interface {
	// Save inserts or replaces the credential of c.OwnerID for c.Source.
	Save(ctx context.Context, c *models.SyncCredential) error

	// Find returns the stored credential, or common.ErrorNotFound.
	Find(ctx context.Context, ownerID string, source models.Source) (*models.SyncCredential, error)

	// Delete removes the credential. Deleting a missing credential is not an error.
	Delete(ctx context.Context, ownerID string, source models.Source) error
}
