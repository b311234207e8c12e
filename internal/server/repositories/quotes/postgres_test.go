package quotes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestInsertIfAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	fetched := date(time.January, 27).Add(8 * time.Hour)
	q := &models.QuoteEntry{Date: fetched, Text: "Stay hungry", Author: "Jobs", FetchedAt: fetched}

	insert := `(?s)^INSERT\s+INTO\s+quotes\b.*ON\s+CONFLICT\s+\(quote_date\)\s+DO\s+NOTHING\s*$`
	mock.ExpectExec(insert).
		WithArgs(date(time.January, 27), "Stay hungry", "Jobs", fetched).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).
		WithArgs(date(time.January, 27), "Stay hungry", "Jobs", fetched).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.InsertIfAbsent(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.InsertIfAbsent(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, won, "second writer for the same date no-ops")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByDate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^SELECT\s+quote_date,\s*text,\s*author,\s*fetched_at\s+FROM\s+quotes\s+WHERE\s+quote_date\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs(date(time.January, 26)).
		WillReturnRows(sqlmock.NewRows([]string{"quote_date", "text", "author", "fetched_at"}).
			AddRow(date(time.January, 26), "Q1", "A1", date(time.January, 26)))
	mock.ExpectQuery(q).WithArgs(date(time.January, 27)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByDate(context.Background(), date(time.January, 26).Add(13*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Q1", got.Text)
	assert.True(t, got.Date.Equal(date(time.January, 26)))

	_, err = repo.FindByDate(context.Background(), date(time.January, 27))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLatestBefore(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\b.*FROM\s+quotes\s+WHERE\s+quote_date\s*<\s*\$1\s+ORDER\s+BY\s+quote_date\s+DESC\s+LIMIT\s+1\s*$`).
		WithArgs(date(time.January, 27)).
		WillReturnRows(sqlmock.NewRows([]string{"quote_date", "text", "author", "fetched_at"}).
			AddRow(date(time.January, 26), "Q1", "A1", date(time.January, 26)))

	got, err := repo.LatestBefore(context.Background(), date(time.January, 27))
	require.NoError(t, err)
	assert.Equal(t, "Q1", got.Text)
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.LatestBefore(ctx, date(time.January, 27))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	won, _ := r.InsertIfAbsent(ctx, &models.QuoteEntry{Date: date(time.January, 20), Text: "old"})
	assert.True(t, won)
	won, _ = r.InsertIfAbsent(ctx, &models.QuoteEntry{Date: date(time.January, 26).Add(5 * time.Hour), Text: "Q1"})
	assert.True(t, won)
	won, _ = r.InsertIfAbsent(ctx, &models.QuoteEntry{Date: date(time.January, 26), Text: "late"})
	assert.False(t, won)

	got, err := r.FindByDate(ctx, date(time.January, 26))
	require.NoError(t, err)
	assert.Equal(t, "Q1", got.Text)

	got, err = r.LatestBefore(ctx, date(time.January, 27))
	require.NoError(t, err)
	assert.Equal(t, "Q1", got.Text)

	got, err = r.LatestBefore(ctx, date(time.January, 26))
	require.NoError(t, err)
	assert.Equal(t, "old", got.Text)
}
