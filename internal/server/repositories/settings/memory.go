package settings

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]models.UserSettings
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.UserSettings)}
}

func (r *MemoryRepository) Get(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[ownerID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) Save(ctx context.Context, s *models.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.OwnerID] = *s
	return nil
}
