// Package common defines sentinel errors and small helpers shared by the
// storage, source and service layers. Callers should use errors.Is to match
// these values; producers wrap them with fmt.Errorf("...: %w", ...).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation / item-specific errors. A malformed upstream item is
	// skipped and counted, it never aborts a sync run.
	ErrValidation = errors.New("validation error")

	// Vault errors.
	ErrDecryption = errors.New("credential decryption failed")
	ErrInvalidKey = errors.New("invalid vault key")

	// Source errors (returned by SourceClient.Fetch and credential refresh).
	ErrNetwork       = errors.New("network error")
	ErrRateLimited   = errors.New("rate limited")
	ErrAuth          = errors.New("authorization rejected")
	ErrCursorExpired = errors.New("sync cursor expired")
	ErrProvider      = errors.New("provider error")

	// Run-level errors surfaced to the trigger.
	ErrAlreadyRunning          = errors.New("sync already running")
	ErrNoCredential            = errors.New("no credential")
	ErrReauthorizationRequired = errors.New("reauthorization required")
	ErrUnknownSource           = errors.New("unknown source")

	// Quote cache errors.
	ErrNoQuoteAvailable = errors.New("no quote available")

	// Consent errors (invalid or expired OAuth state).
	ErrInvalidState = errors.New("invalid consent state")
)
