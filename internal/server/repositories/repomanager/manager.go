// Package repomanager vends repositories bound to a connection or a
// transaction and owns schema migrations.
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

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// Conn is the non-transactional handle for single-statement work.
	Conn() dbx.DBTX

	// WithTx runs fn in one transaction; repositories built from the tx
	// handle it receives commit or roll back together.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Commits(db dbx.DBTX) commits.Repository
	Events(db dbx.DBTX) events.Repository
	Quotes(db dbx.DBTX) quotes.Repository
	Checkmarks(db dbx.DBTX) checkmarks.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Cursors(db dbx.DBTX) cursors.Repository
	Locks(db dbx.DBTX) locks.Repository
	Settings(db dbx.DBTX) settings.Repository
}
