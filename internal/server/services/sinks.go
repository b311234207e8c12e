package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
)

// pageCounts are the per-page outcome tallies, merged into the run result
// once the page's transaction commits.
type pageCounts struct {
	inserted   int
	updated    int
	deleted    int
	duplicates int
	skipped    int
}

func (c pageCounts) addTo(r *models.SyncRunResult) {
	r.Inserted += c.inserted
	r.Updated += c.updated
	r.Deleted += c.deleted
	r.Duplicates += c.duplicates
	r.Skipped += c.skipped
}

// sink stores one raw item of a source. Returning an error wrapping
// common.ErrValidation skips the item; any other error aborts the page.
type sink func(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, ownerID string, item sources.RawItem, c *pageCounts) error

func sinkFor(source models.Source) (sink, bool) {
	switch source {
	case models.SourceCommits:
		return commitSink, true
	case models.SourceCalendar:
		return eventSink, true
	}
	return nil, false
}

func toCommitRecord(ownerID string, item sources.RawItem) (*models.CommitRecord, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, fmt.Errorf("%w: commit without sha", common.ErrValidation)
	}
	if item.Timestamp.IsZero() {
		return nil, fmt.Errorf("%w: commit %s without timestamp", common.ErrValidation, item.ID)
	}
	return &models.CommitRecord{
		OwnerID:     ownerID,
		SHA:         item.ID,
		Repo:        item.Repo,
		Message:     item.Message,
		CommittedAt: item.Timestamp.UTC(),
	}, nil
}

func commitSink(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, ownerID string, item sources.RawItem, c *pageCounts) error {
	rec, err := toCommitRecord(ownerID, item)
	if err != nil {
		return err
	}
	inserted, err := m.Commits(tx).Insert(ctx, rec)
	if err != nil {
		return err
	}
	if inserted {
		c.inserted++
	} else {
		c.duplicates++
	}
	return nil
}

func toCalendarEvent(ownerID string, item sources.RawItem) (*models.CalendarEvent, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, fmt.Errorf("%w: event without id", common.ErrValidation)
	}
	if item.Start.IsZero() || item.End.IsZero() {
		return nil, fmt.Errorf("%w: event %s without start or end", common.ErrValidation, item.ID)
	}
	if item.End.Before(item.Start) {
		return nil, fmt.Errorf("%w: event %s ends before it starts", common.ErrValidation, item.ID)
	}
	return &models.CalendarEvent{
		OwnerID:       ownerID,
		SourceEventID: item.ID,
		Summary:       item.Summary,
		StartAt:       item.Start.UTC(),
		EndAt:         item.End.UTC(),
		AllDay:        item.AllDay,
	}, nil
}

func eventSink(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, ownerID string, item sources.RawItem, c *pageCounts) error {
	if item.Cancelled {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("%w: cancelled event without id", common.ErrValidation)
		}
		existed, err := m.Events(tx).Delete(ctx, ownerID, item.ID)
		if err != nil {
			return err
		}
		if existed {
			c.deleted++
		}
		return nil
	}

	ev, err := toCalendarEvent(ownerID, item)
	if err != nil {
		return err
	}
	inserted, err := m.Events(tx).Upsert(ctx, ev)
	if err != nil {
		return err
	}
	if inserted {
		c.inserted++
	} else {
		c.updated++
	}
	return nil
}

// storePage writes every item of a page in one transaction.
func storePage(ctx context.Context, m repomanager.RepositoryManager, store sink, ownerID string, items []sources.RawItem) (pageCounts, error) {
	var c pageCounts
	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		c = pageCounts{}
		for _, item := range items {
			if err := store(ctx, m, tx, ownerID, item, &c); err != nil {
				if errors.Is(err, common.ErrValidation) {
					c.skipped++
					continue
				}
				return err
			}
		}
		return nil
	})
	return c, err
}
