package cursors

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type key struct {
	owner  string
	source models.Source
}

type MemoryRepository struct {
	mu    sync.Mutex
	items map[key]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]string)}
}

func (r *MemoryRepository) Get(ctx context.Context, ownerID string, source models.Source) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[key{ownerID, source}], nil
}

func (r *MemoryRepository) Save(ctx context.Context, ownerID string, source models.Source, cursor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key{ownerID, source}] = cursor
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID string, source models.Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key{ownerID, source})
	return nil
}
