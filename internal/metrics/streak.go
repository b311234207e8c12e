// Package metrics derives streaks and daily scores from accumulated
// history. Everything here is a pure function of its inputs and a
// caller-supplied reference date; no I/O, no clock reads.
package metrics

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

// Streaks summarizes a set of checkmarked days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// normalize collapses days to distinct civil dates in ascending order.
func normalize(days []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(days))
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		day := timex.Day(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// LongestStreak returns the length of the longest run of consecutive days.
// An empty set yields 0.
func LongestStreak(days []time.Time) int {
	sorted := normalize(days)
	if len(sorted) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if timex.AddDays(sorted[i-1], 1).Equal(sorted[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CurrentStreak counts consecutive days ending at ref. If ref itself is not
// in the set the streak is 0: a day without a checkmark breaks it.
func CurrentStreak(days []time.Time, ref time.Time) int {
	set := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		set[timex.Day(d)] = struct{}{}
	}

	n := 0
	for day := timex.Day(ref); ; day = timex.AddDays(day, -1) {
		if _, ok := set[day]; !ok {
			return n
		}
		n++
	}
}

// ComputeStreaks returns both streak figures for days relative to ref.
func ComputeStreaks(days []time.Time, ref time.Time) Streaks {
	return Streaks{
		Current: CurrentStreak(days, ref),
		Longest: LongestStreak(days),
	}
}
