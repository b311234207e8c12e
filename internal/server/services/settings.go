package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
)

// SettingsService owns per-owner preferences. The time zone decides which
// civil date "today" is for an owner.
type SettingsService struct {
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{repomanager: m}
}

// SetTimeZone stores an IANA zone name such as "Europe/Riga".
func (s *SettingsService) SetTimeZone(ctx context.Context, ownerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return fmt.Errorf("%w: time zone must be an IANA name", common.ErrValidation)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", common.ErrValidation, name)
	}
	return s.repomanager.Settings(s.repomanager.Conn()).Save(ctx, &models.UserSettings{OwnerID: ownerID, TimeZone: name})
}

// Location returns the owner's zone, UTC when none is set.
func (s *SettingsService) Location(ctx context.Context, ownerID string) (*time.Location, error) {
	st, err := s.repomanager.Settings(s.repomanager.Conn()).Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return time.UTC, nil
		}
		return nil, err
	}
	loc, err := time.LoadLocation(st.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: stored time zone %q: %v", common.ErrValidation, st.TimeZone, err)
	}
	return loc, nil
}
