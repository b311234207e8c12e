package models

import "time"

// SyncCredential is the stored, encrypted credential of one owner for one
// source. Ciphertext is opaque outside the vault.
type SyncCredential struct {
	OwnerID    string
	Source     Source
	Ciphertext []byte
	ExpiresAt  *time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the credential carries an expiry at or before now.
func (c *SyncCredential) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// SyncCursor is the resumable position of the last completed run.
type SyncCursor struct {
	OwnerID   string
	Source    Source
	Cursor    string
	UpdatedAt time.Time
}

// UserSettings holds per-owner preferences.
type UserSettings struct {
	OwnerID  string
	TimeZone string
}
