package timex

import "time"

// DateLayout is the civil date format used in storage keys and CLI input.
const DateLayout = "2006-01-02"

// Day returns the civil date of t, as seen in t's own location, normalized
// to midnight UTC. Two instants on the same local calendar day map to the
// same Day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayIn returns the civil date of t in loc.
func DayIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc))
}

// AddDays moves a civil date by n days.
func AddDays(day time.Time, n int) time.Time {
	return Day(day).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(day time.Time) string {
	return Day(day).Format(DateLayout)
}
