package cursors

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

const getQuery = `(?s)^SELECT\s+cursor\s+FROM\s+sync_cursors\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+source\s*=\s*\$2\s*$`

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQuery).WithArgs("u1", "calendar").
		WillReturnRows(sqlmock.NewRows([]string{"cursor"}).AddRow("sync=abc"))
	mock.ExpectQuery(getQuery).WithArgs("u2", "calendar").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(getQuery).WithArgs("u3", "calendar").
		WillReturnError(errors.New("boom"))

	got, err := repo.Get(context.Background(), "u1", models.SourceCalendar)
	require.NoError(t, err)
	assert.Equal(t, "sync=abc", got)

	got, err = repo.Get(context.Background(), "u2", models.SourceCalendar)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.Get(context.Background(), "u3", models.SourceCalendar)
	assert.ErrorContains(t, err, "db error: boom")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAndDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+sync_cursors\b.*ON\s+CONFLICT\s+\(owner_id,\s*source\)\s+DO\s+UPDATE\b`).
		WithArgs("u1", "calendar", "sync=abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+sync_cursors\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+source\s*=\s*\$2\s*$`).
		WithArgs("u1", "calendar").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), "u1", models.SourceCalendar, "sync=abc"))
	require.NoError(t, repo.Delete(context.Background(), "u1", models.SourceCalendar))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	got, _ := r.Get(ctx, "u1", models.SourceCommits)
	assert.Empty(t, got)

	require.NoError(t, r.Save(ctx, "u1", models.SourceCommits, "3"))
	got, _ = r.Get(ctx, "u1", models.SourceCommits)
	assert.Equal(t, "3", got)

	got, _ = r.Get(ctx, "u2", models.SourceCommits)
	assert.Empty(t, got)

	require.NoError(t, r.Delete(ctx, "u1", models.SourceCommits))
	got, _ = r.Get(ctx, "u1", models.SourceCommits)
	assert.Empty(t, got)
}
