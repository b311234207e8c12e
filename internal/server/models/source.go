// Package models defines the records the tracker persists and the run
// summaries it returns.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/common"
)

// Source names an external signal provider.
type Source string

const (
	SourceQuote    Source = "quote"
	SourceCommits  Source = "commits"
	SourceCalendar Source = "calendar"
)

// Sources lists every known provider.
var Sources = []Source{SourceQuote, SourceCommits, SourceCalendar}

// ParseSource maps a user-supplied name to a Source.
func ParseSource(s string) (Source, error) {
	for _, src := range Sources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownSource, s)
}

// ErrorKind classifies why a sync run stopped early.
type ErrorKind string

const (
	ErrorKindNone                    ErrorKind = ""
	ErrorKindNetwork                 ErrorKind = "network"
	ErrorKindRateLimited             ErrorKind = "rate_limited"
	ErrorKindReauthorizationRequired ErrorKind = "reauthorization_required"
	ErrorKindNoCredential            ErrorKind = "no_credential"
	ErrorKindAlreadyRunning          ErrorKind = "already_running"
	ErrorKindProvider                ErrorKind = "provider"
	ErrorKindStorage                 ErrorKind = "storage"
	ErrorKindCanceled                ErrorKind = "canceled"
)
