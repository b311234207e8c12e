package checkmarks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

type key struct {
	owner string
	day   time.Time
}

type MemoryRepository struct {
	mu    sync.Mutex
	items map[key]models.CheckmarkDay
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]models.CheckmarkDay)}
}

func (r *MemoryRepository) Upsert(ctx context.Context, d *models.CheckmarkDay) error {
	if err := d.Wins.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *d
	stored.Day = timex.Day(d.Day)
	stored.Wins = append(models.Wins{}, d.Wins...)
	r.items[key{d.OwnerID, stored.Day}] = stored
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, ownerID string, day time.Time) (*models.CheckmarkDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[key{ownerID, timex.Day(day)}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) CheckmarkDates(ctx context.Context, ownerID string) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []time.Time
	for k, d := range r.items {
		if k.owner == ownerID && d.HasCheckmark {
			out = append(out, k.day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
