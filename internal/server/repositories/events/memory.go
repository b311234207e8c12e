package events

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type key struct {
	owner string
	id    string
}

type MemoryRepository struct {
	mu    sync.Mutex
	items map[key]models.CalendarEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]models.CalendarEvent)}
}

func (r *MemoryRepository) Upsert(ctx context.Context, e *models.CalendarEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{e.OwnerID, e.SourceEventID}
	_, existed := r.items[k]
	r.items[k] = *e
	return !existed, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID, sourceEventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{ownerID, sourceEventID}
	_, existed := r.items[k]
	delete(r.items, k)
	return existed, nil
}

func (r *MemoryRepository) Starts(ctx context.Context, ownerID string, from, to time.Time) ([]models.EventStart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EventStart
	for k, e := range r.items {
		if k.owner == ownerID && !e.StartAt.Before(from) && e.StartAt.Before(to) {
			out = append(out, models.EventStart{At: e.StartAt, AllDay: e.AllDay})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// Get returns a stored event, for assertions.
func (r *MemoryRepository) Get(ownerID, sourceEventID string) (models.CalendarEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[key{ownerID, sourceEventID}]
	return e, ok
}
