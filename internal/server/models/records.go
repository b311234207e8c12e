package models

import "time"

// CommitRecord is one commit pulled from the commits provider. It is
// immutable once stored; re-syncing the same SHA is a no-op.
type CommitRecord struct {
	OwnerID     string
	SHA         string
	Repo        string
	Message     string
	CommittedAt time.Time
}

// CalendarEvent mirrors an upstream calendar event. Re-syncing overwrites
// its fields.
type CalendarEvent struct {
	OwnerID       string
	SourceEventID string
	Summary       string
	StartAt       time.Time
	EndAt         time.Time
	// AllDay events carry a civil date, stored as midnight UTC, rather
	// than an instant.
	AllDay bool
}

// EventStart is the start of a stored event as the day bucketing needs it.
type EventStart struct {
	At     time.Time
	AllDay bool
}

// QuoteEntry is the process-wide quote of a calendar date.
type QuoteEntry struct {
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	FetchedAt time.Time `json:"fetched_at"`
}
