package commits

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type key struct {
	owner string
	sha   string
}

type MemoryRepository struct {
	mu    sync.Mutex
	items map[key]models.CommitRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]models.CommitRecord)}
}

func (r *MemoryRepository) Insert(ctx context.Context, c *models.CommitRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{c.OwnerID, c.SHA}
	if _, ok := r.items[k]; ok {
		return false, nil
	}
	r.items[k] = *c
	return true, nil
}

func (r *MemoryRepository) CommittedAt(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []time.Time
	for k, c := range r.items {
		if k.owner == ownerID && !c.CommittedAt.Before(from) && c.CommittedAt.Before(to) {
			out = append(out, c.CommittedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// Len returns the number of stored commits.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
