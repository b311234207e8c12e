package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/migrations"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/checkmarks"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/commits"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/cursors"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/events"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/locks"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/quotes"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/settings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

// Open connects to dsn through the pgx stdlib driver and pings it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func (m *PostgresRepositoryManager) Conn() dbx.DBTX { return m.db }

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, m.db, nil, fn)
}

func (m *PostgresRepositoryManager) Commits(db dbx.DBTX) commits.Repository {
	return commits.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Quotes(db dbx.DBTX) quotes.Repository {
	return quotes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Checkmarks(db dbx.DBTX) checkmarks.Repository {
	return checkmarks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Cursors(db dbx.DBTX) cursors.Repository {
	return cursors.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Locks(db dbx.DBTX) locks.Repository {
	return locks.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the manager's database.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}
