package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"golang.org/x/sync/singleflight"
)

// QuoteService serves the quote of the day, fetching it at most once per
// date and falling back to the newest earlier quote when the provider is
// unreachable.
type QuoteService struct {
	repomanager repomanager.RepositoryManager
	client      sources.SourceClient
	timeout     time.Duration
	group       singleflight.Group
	logger      logging.Logger
	now         func() time.Time
}

func NewQuoteService(m repomanager.RepositoryManager, client sources.SourceClient, timeout time.Duration, logger logging.Logger) *QuoteService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QuoteService{
		repomanager: m,
		client:      client,
		timeout:     timeout,
		logger:      logger.With("module", "quotes"),
		now:         time.Now,
	}
}

// GetToday returns the quote of today. stale is true when the provider
// failed and an older quote is returned instead.
func (s *QuoteService) GetToday(ctx context.Context, today time.Time) (*models.QuoteEntry, bool, error) {
	day := timex.Day(today)
	repo := s.repomanager.Quotes(s.repomanager.Conn())

	q, err := repo.FindByDate(ctx, day)
	if err == nil {
		return q, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	fetched, err := s.fetch(ctx, day)
	if err != nil {
		s.logger.Warn(ctx, "quote fetch failed, falling back", "date", timex.FormatDate(day), "error", err)
		prev, perr := repo.LatestBefore(ctx, day)
		if perr != nil {
			if errors.Is(perr, common.ErrorNotFound) {
				return nil, false, fmt.Errorf("%w: %w", common.ErrNoQuoteAvailable, err)
			}
			return nil, false, perr
		}
		return prev, true, nil
	}

	// a concurrent writer may have stored the date first; the stored row wins
	if _, err := repo.InsertIfAbsent(ctx, fetched); err != nil {
		return nil, false, err
	}
	stored, err := repo.FindByDate(ctx, day)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// fetch collapses concurrent misses of the same date into one provider call.
// The shared call is bounded by the fetch timeout only, so one caller
// going away does not fail the others.
func (s *QuoteService) fetch(ctx context.Context, day time.Time) (*models.QuoteEntry, error) {
	v, err, _ := s.group.Do(timex.FormatDate(day), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		page, err := s.client.Fetch(fctx, nil, "")
		if err != nil {
			return nil, err
		}
		if len(page.Items) != 1 || strings.TrimSpace(page.Items[0].Text) == "" {
			return nil, fmt.Errorf("%w: expected exactly one quote", common.ErrNetwork)
		}
		item := page.Items[0]
		return &models.QuoteEntry{
			Date:      day,
			Text:      item.Text,
			Author:    item.Author,
			FetchedAt: s.now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	q := *v.(*models.QuoteEntry)
	return &q, nil
}
