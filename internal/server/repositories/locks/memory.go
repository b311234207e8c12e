package locks

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type key struct {
	owner  string
	source models.Source
}

type lease struct {
	holder  string
	expires time.Time
}

type MemoryRepository struct {
	mu     sync.Mutex
	leases map[key]lease
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{leases: make(map[key]lease)}
}

func (r *MemoryRepository) Acquire(ctx context.Context, ownerID string, source models.Source, holder string, now time.Time, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{ownerID, source}
	if l, ok := r.leases[k]; ok && l.expires.After(now) {
		return false, nil
	}
	r.leases[k] = lease{holder: holder, expires: now.Add(ttl)}
	return true, nil
}

func (r *MemoryRepository) Release(ctx context.Context, ownerID string, source models.Source, holder string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{ownerID, source}
	if l, ok := r.leases[k]; ok && l.holder == holder {
		delete(r.leases, k)
	}
	return nil
}
