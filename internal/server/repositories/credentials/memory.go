package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type key struct {
	owner  string
	source models.Source
}

// MemoryRepository is a map-backed Repository for tests and local runs.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[key]models.SyncCredential
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]models.SyncCredential)}
}

func (r *MemoryRepository) Save(ctx context.Context, c *models.SyncCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	stored.Ciphertext = append([]byte(nil), c.Ciphertext...)
	stored.UpdatedAt = time.Now()
	r.items[key{c.OwnerID, c.Source}] = stored
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, ownerID string, source models.Source) (*models.SyncCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[key{ownerID, source}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Ciphertext = append([]byte(nil), c.Ciphertext...)
	return &c, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID string, source models.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key{ownerID, source})
	return nil
}
