// Package sources implements the clients that pull raw signals from
// external providers. Every client speaks the same paging contract and
// reports failures with the sentinel errors of internal/common:
//
//	common.ErrNetwork        transient, retry with backoff
//	common.ErrRateLimited    stop the run, keep what was stored
//	common.ErrAuth           refresh the credential once
//	common.ErrCursorExpired  restart from a full listing
//	common.ErrProvider       upstream rejected the request
package sources

import (
	"context"
	"time"
)

// Credential is the decrypted secret a client authenticates with. It only
// lives in memory for the duration of a run.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Account      string    `json:"account,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// RawItem is one unvalidated record as the provider described it. Which
// fields are set depends on the source.
type RawItem struct {
	ID string

	// commits
	Repo      string
	Message   string
	Timestamp time.Time

	// calendar
	Summary   string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Cancelled bool

	// quote
	Text   string
	Author string
}

// Page is one batch of items. NextCursor resumes after it; when Exhausted
// is set, NextCursor (if any) is the position to persist for the next run.
type Page struct {
	Items      []RawItem
	NextCursor string
	Exhausted  bool
}

// SourceClient fetches one page at cursor. An empty cursor starts a full
// listing.
type SourceClient interface {
	Fetch(ctx context.Context, cred *Credential, cursor string) (*Page, error)
}

// Refresher trades a credential's refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, cred *Credential) (*Credential, error)
}
