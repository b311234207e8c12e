package metrics

import "time"

// Weights are the per-signal multipliers of a daily score.
type Weights struct {
	Commits   float64 `json:"commits"`
	Events    float64 `json:"events"`
	Checkmark float64 `json:"checkmark"`
}

// DefaultWeights scores a day by its commit count alone.
var DefaultWeights = Weights{Commits: 1}

// WeightFunc picks the weights for a given date.
type WeightFunc func(date time.Time) Weights

// Signals are the raw per-day inputs to a score.
type Signals struct {
	CommitCount  int  `json:"commit_count"`
	EventCount   int  `json:"event_count"`
	HasCheckmark bool `json:"has_checkmark"`
}

// Aggregator computes daily scores with a pluggable weighting.
type Aggregator struct {
	weights WeightFunc
}

// NewAggregator returns an aggregator using fn, or DefaultWeights for every
// date when fn is nil.
func NewAggregator(fn WeightFunc) *Aggregator {
	if fn == nil {
		fn = StaticWeights(DefaultWeights)
	}
	return &Aggregator{weights: fn}
}

// StaticWeights returns a WeightFunc that ignores the date.
func StaticWeights(w Weights) WeightFunc {
	return func(time.Time) Weights { return w }
}

// DailyScore is the weighted sum of the day's signals.
func (a *Aggregator) DailyScore(date time.Time, s Signals) float64 {
	w := a.weights(date)
	score := w.Commits*float64(s.CommitCount) + w.Events*float64(s.EventCount)
	if s.HasCheckmark {
		score += w.Checkmark
	}
	return score
}
