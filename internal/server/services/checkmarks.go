package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

type CheckmarkService struct {
	repomanager repomanager.RepositoryManager
}

func NewCheckmarkService(m repomanager.RepositoryManager) *CheckmarkService {
	return &CheckmarkService{repomanager: m}
}

// RecordWins replaces the wins of day. Three wins make a checkmark.
func (s *CheckmarkService) RecordWins(ctx context.Context, ownerID string, day time.Time, wins models.Wins) (*models.CheckmarkDay, error) {
	d, err := models.NewCheckmarkDay(ownerID, timex.Day(day), wins)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Checkmarks(s.repomanager.Conn()).Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns the record of day; a day without one has no wins.
func (s *CheckmarkService) Get(ctx context.Context, ownerID string, day time.Time) (*models.CheckmarkDay, error) {
	d, err := s.repomanager.Checkmarks(s.repomanager.Conn()).Find(ctx, ownerID, timex.Day(day))
	if errors.Is(err, common.ErrorNotFound) {
		return models.NewCheckmarkDay(ownerID, timex.Day(day), models.Wins{})
	}
	return d, err
}
