package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/metrics"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

// maxScoreRange caps DailyScores so one request cannot scan years of rows.
const maxScoreRange = 366

// DayStats are the signals and score of one local civil date.
type DayStats struct {
	Date string `json:"date"`
	metrics.Signals
	Score float64 `json:"score"`
}

// Summary is the dashboard view of an owner's progress.
type Summary struct {
	Today   DayStats        `json:"today"`
	Streaks metrics.Streaks `json:"streaks"`
}

// StatsService reads accumulated history and hands it to the metrics
// package. Commits and events are bucketed by the owner's local date.
type StatsService struct {
	repomanager repomanager.RepositoryManager
	settings    *SettingsService
	aggregator  *metrics.Aggregator
	now         func() time.Time
}

func NewStatsService(m repomanager.RepositoryManager, settings *SettingsService, aggregator *metrics.Aggregator) *StatsService {
	if aggregator == nil {
		aggregator = metrics.NewAggregator(nil)
	}
	return &StatsService{
		repomanager: m,
		settings:    settings,
		aggregator:  aggregator,
		now:         time.Now,
	}
}

// Today is the owner's current civil date.
func (s *StatsService) Today(ctx context.Context, ownerID string) (time.Time, error) {
	loc, err := s.settings.Location(ctx, ownerID)
	if err != nil {
		return time.Time{}, err
	}
	return timex.DayIn(s.now(), loc), nil
}

func (s *StatsService) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	today, err := s.Today(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	streaks, err := s.Streaks(ctx, ownerID, today)
	if err != nil {
		return nil, err
	}
	days, err := s.DailyScores(ctx, ownerID, today, today)
	if err != nil {
		return nil, err
	}
	return &Summary{Today: days[0], Streaks: streaks}, nil
}

// Streaks computes current and longest checkmark streaks relative to ref.
func (s *StatsService) Streaks(ctx context.Context, ownerID string, ref time.Time) (metrics.Streaks, error) {
	dates, err := s.repomanager.Checkmarks(s.repomanager.Conn()).CheckmarkDates(ctx, ownerID)
	if err != nil {
		return metrics.Streaks{}, err
	}
	return metrics.ComputeStreaks(dates, ref), nil
}

// DailyScores returns one entry per civil date in [from, to], both ends
// included, in ascending order.
func (s *StatsService) DailyScores(ctx context.Context, ownerID string, from, to time.Time) ([]DayStats, error) {
	from, to = timex.Day(from), timex.Day(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range ends before it starts", common.ErrValidation)
	}
	n := int(to.Sub(from).Hours()/24) + 1
	if n > maxScoreRange {
		return nil, fmt.Errorf("%w: at most %d days per request", common.ErrValidation, maxScoreRange)
	}

	loc, err := s.settings.Location(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	start := localMidnight(from, loc)
	end := localMidnight(timex.AddDays(to, 1), loc)

	conn := s.repomanager.Conn()
	commitTimes, err := s.repomanager.Commits(conn).CommittedAt(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	// all-day starts are civil dates at midnight UTC, up to a day away from
	// the local bounds
	eventStarts, err := s.repomanager.Events(conn).Starts(ctx, ownerID, start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	checkmarks, err := s.repomanager.Checkmarks(conn).CheckmarkDates(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	signals := make(map[time.Time]*metrics.Signals, n)
	for i := 0; i < n; i++ {
		signals[timex.AddDays(from, i)] = &metrics.Signals{}
	}
	for _, t := range commitTimes {
		if sig, ok := signals[timex.DayIn(t, loc)]; ok {
			sig.CommitCount++
		}
	}
	for _, e := range eventStarts {
		day := timex.DayIn(e.At, loc)
		if e.AllDay {
			day = timex.DayIn(e.At, time.UTC)
		}
		if sig, ok := signals[day]; ok {
			sig.EventCount++
		}
	}
	for _, d := range checkmarks {
		if sig, ok := signals[timex.Day(d)]; ok {
			sig.HasCheckmark = true
		}
	}

	out := make([]DayStats, 0, n)
	for i := 0; i < n; i++ {
		day := timex.AddDays(from, i)
		sig := *signals[day]
		out = append(out, DayStats{
			Date:    timex.FormatDate(day),
			Signals: sig,
			Score:   s.aggregator.DailyScore(day, sig),
		})
	}
	return out, nil
}

// localMidnight is the instant a civil date begins in loc.
func localMidnight(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
