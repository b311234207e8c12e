package repomanager

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/checkmarks"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/commits"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/cursors"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/events"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/locks"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/quotes"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/settings"
)

// InMemoryRepositoryManager hands out shared map-backed repositories,
// ignoring the DBTX argument. Transactions are not isolated: WithTx simply
// runs fn, which is enough for single-process tests.
type InMemoryRepositoryManager struct {
	CommitRepo     *commits.MemoryRepository
	EventRepo      *events.MemoryRepository
	QuoteRepo      *quotes.MemoryRepository
	CheckmarkRepo  *checkmarks.MemoryRepository
	CredentialRepo *credentials.MemoryRepository
	CursorRepo     *cursors.MemoryRepository
	LockRepo       *locks.MemoryRepository
	SettingsRepo   *settings.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		CommitRepo:     commits.NewMemoryRepository(),
		EventRepo:      events.NewMemoryRepository(),
		QuoteRepo:      quotes.NewMemoryRepository(),
		CheckmarkRepo:  checkmarks.NewMemoryRepository(),
		CredentialRepo: credentials.NewMemoryRepository(),
		CursorRepo:     cursors.NewMemoryRepository(),
		LockRepo:       locks.NewMemoryRepository(),
		SettingsRepo:   settings.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Commits(dbx.DBTX) commits.Repository { return m.CommitRepo }

func (m *InMemoryRepositoryManager) Events(dbx.DBTX) events.Repository { return m.EventRepo }

func (m *InMemoryRepositoryManager) Quotes(dbx.DBTX) quotes.Repository { return m.QuoteRepo }

func (m *InMemoryRepositoryManager) Checkmarks(dbx.DBTX) checkmarks.Repository {
	return m.CheckmarkRepo
}

func (m *InMemoryRepositoryManager) Credentials(dbx.DBTX) credentials.Repository {
	return m.CredentialRepo
}

func (m *InMemoryRepositoryManager) Cursors(dbx.DBTX) cursors.Repository { return m.CursorRepo }

func (m *InMemoryRepositoryManager) Locks(dbx.DBTX) locks.Repository { return m.LockRepo }

func (m *InMemoryRepositoryManager) Settings(dbx.DBTX) settings.Repository { return m.SettingsRepo }
