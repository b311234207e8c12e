package services

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/cryptox"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

func newTestVault(t *testing.T) *cryptox.Vault {
	t.Helper()
	v, err := cryptox.NewVault(bytes.Repeat([]byte{9}, cryptox.KeySize))
	require.NoError(t, err)
	return v
}

// fakeClient answers Fetch through fn and records every cursor it saw.
type fakeClient struct {
	mu      sync.Mutex
	cursors []string
	tokens  []string
	fn      func(call int, cred *sources.Credential, cursor string) (*sources.Page, error)
}

func (c *fakeClient) Fetch(ctx context.Context, cred *sources.Credential, cursor string) (*sources.Page, error) {
	c.mu.Lock()
	call := len(c.cursors)
	c.cursors = append(c.cursors, cursor)
	token := ""
	if cred != nil {
		token = cred.AccessToken
	}
	c.tokens = append(c.tokens, token)
	c.mu.Unlock()
	return c.fn(call, cred, cursor)
}

func (c *fakeClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cursors)
}

func (c *fakeClient) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cursors...)
}

type fakeRefresher struct {
	mu    sync.Mutex
	n     int
	token string
	err   error
}

func (r *fakeRefresher) Refresh(ctx context.Context, cred *sources.Credential) (*sources.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	if r.err != nil {
		return nil, r.err
	}
	return &sources.Credential{
		AccessToken:  r.token,
		RefreshToken: cred.RefreshToken,
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func (r *fakeRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type syncFixture struct {
	rm    *repomanager.InMemoryRepositoryManager
	creds *CredentialService
	svc   *SyncService
}

func newSyncFixture(t *testing.T, opts SyncOptions) *syncFixture {
	t.Helper()
	rm := repomanager.NewInMemoryRepositoryManager()
	creds := NewCredentialService(rm, newTestVault(t))
	if opts.RetryBaseDelay == 0 {
		opts.RetryBaseDelay = time.Millisecond
	}
	if opts.MaxPages == 0 {
		opts.MaxPages = 50
	}
	return &syncFixture{
		rm:    rm,
		creds: creds,
		svc:   NewSyncService(rm, creds, opts, logging.Nop()),
	}
}

func (f *syncFixture) connect(t *testing.T, source models.Source, cred *sources.Credential) {
	t.Helper()
	require.NoError(t, f.creds.Save(context.Background(), testOwner, source, cred))
}

func commitItems(shas ...string) []sources.RawItem {
	out := make([]sources.RawItem, 0, len(shas))
	for i, sha := range shas {
		out = append(out, sources.RawItem{
			ID:        sha,
			Repo:      "octo/repo",
			Message:   "commit " + sha,
			Timestamp: time.Date(2024, 3, 1, 10, i, 0, 0, time.UTC),
		})
	}
	return out
}
