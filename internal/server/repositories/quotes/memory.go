package quotes

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

type MemoryRepository struct {
	mu    sync.Mutex
	items map[time.Time]models.QuoteEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[time.Time]models.QuoteEntry)}
}

func (r *MemoryRepository) InsertIfAbsent(ctx context.Context, q *models.QuoteEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := timex.Day(q.Date)
	if _, ok := r.items[day]; ok {
		return false, nil
	}
	stored := *q
	stored.Date = day
	r.items[day] = stored
	return true, nil
}

func (r *MemoryRepository) FindByDate(ctx context.Context, day time.Time) (*models.QuoteEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[timex.Day(day)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &q, nil
}

func (r *MemoryRepository) LatestBefore(ctx context.Context, day time.Time) (*models.QuoteEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day = timex.Day(day)
	var best *models.QuoteEntry
	for d, q := range r.items {
		if !d.Before(day) {
			continue
		}
		if best == nil || d.After(best.Date) {
			q := q
			best = &q
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	return best, nil
}
