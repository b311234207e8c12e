package models

// SyncRunResult summarizes one sync run. It is returned even when the run
// fails, so callers can see what was committed before the failure.
type SyncRunResult struct {
	Source     Source    `json:"source"`
	Pages      int       `json:"pages"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Deleted    int       `json:"deleted"`
	Duplicates int       `json:"duplicates"`
	Skipped    int       `json:"skipped"`
	Partial    bool      `json:"partial"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
}
