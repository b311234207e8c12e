package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/server/config"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func TestAssemble(t *testing.T) {
	app, err := Assemble(defaultConfig(), repomanager.NewInMemoryRepositoryManager(), logging.Nop())
	require.NoError(t, err)

	assert.NotNil(t, app.Sync)
	assert.NotNil(t, app.Quotes)
	assert.NotNil(t, app.Reports)
	assert.NoError(t, app.Close())

	// both syncable sources are registered; without credentials they stop early
	for _, src := range []models.Source{models.SourceCommits, models.SourceCalendar} {
		res, err := app.Sync.Run(context.Background(), "alice", src)
		assert.ErrorIs(t, err, common.ErrNoCredential, src)
		assert.Equal(t, models.ErrorKindNoCredential, res.ErrorKind)
	}
}

func TestAssemble_BadVaultKey(t *testing.T) {
	c := defaultConfig()
	c.VaultKey = "not-hex"
	_, err := Assemble(c, repomanager.NewInMemoryRepositoryManager(), logging.Nop())
	assert.ErrorIs(t, err, common.ErrInvalidKey)
}

func TestNewApp_DBFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	_, err := NewApp(context.Background(), defaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_ClosesDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) { return db, nil }

	app, err := NewApp(context.Background(), defaultConfig())
	require.NoError(t, err)
	require.NoError(t, app.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := defaultConfig()
	c.LogLevel = "loud"
	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger init error")
}

func TestSignalContext_CancelStopsWatcher(t *testing.T) {
	app := &App{Logger: logging.Nop()}
	ctx, cancel := app.SignalContext(context.Background())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
