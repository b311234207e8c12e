package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
)

// WinsPerCheckmark is the number of wins that turns a day into a
// checkmark day.
const WinsPerCheckmark = 3

// Wins are the short notes a user records for a day.
type Wins []string

// Validate checks the count and that no win is blank.
func (w Wins) Validate() error {
	if len(w) > WinsPerCheckmark {
		return fmt.Errorf("%w: at most %d wins per day, got %d", common.ErrValidation, WinsPerCheckmark, len(w))
	}
	for i, win := range w {
		if strings.TrimSpace(win) == "" {
			return fmt.Errorf("%w: win %d is empty", common.ErrValidation, i+1)
		}
	}
	return nil
}

// EncodeWins is the store-boundary encoding of wins.
func EncodeWins(w Wins) ([]byte, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = Wins{}
	}
	return json.Marshal(w)
}

// DecodeWins parses and validates stored wins.
func DecodeWins(b []byte) (Wins, error) {
	if len(b) == 0 {
		return Wins{}, nil
	}
	var w Wins
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%w: wins: %v", common.ErrValidation, err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = Wins{}
	}
	return w, nil
}

// CheckmarkDay is one owner's record for one civil date.
type CheckmarkDay struct {
	OwnerID      string
	Day          time.Time
	Wins         Wins
	WinCount     int
	HasCheckmark bool
}

// NewCheckmarkDay validates wins and derives the count and checkmark flag.
func NewCheckmarkDay(ownerID string, day time.Time, wins Wins) (*CheckmarkDay, error) {
	if err := wins.Validate(); err != nil {
		return nil, err
	}
	return &CheckmarkDay{
		OwnerID:      ownerID,
		Day:          day,
		Wins:         wins,
		WinCount:     len(wins),
		HasCheckmark: len(wins) == WinsPerCheckmark,
	}, nil
}
