package checkmarks

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

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

const findQuery = `(?s)^SELECT\s+day,\s*wins,\s*win_count,\s*has_checkmark\s+FROM\s+checkmark_days\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+day\s*=\s*\$2\s*$`

func TestUpsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	d, err := models.NewCheckmarkDay("u1", jan(5), models.Wins{"a", "b", "c"})
	require.NoError(t, err)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+checkmark_days\b.*ON\s+CONFLICT\s+\(owner_id,\s*day\)\s+DO\s+UPDATE\b`).
		WithArgs("u1", jan(5), []byte(`["a","b","c"]`), 3, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_RejectsInvalidWins(t *testing.T) {
	repo, _ := newRepoWithMock(t)
	err := repo.Upsert(context.Background(), &models.CheckmarkDay{OwnerID: "u1", Day: jan(5), Wins: models.Wins{""}})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestFind(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(findQuery).WithArgs("u1", jan(5)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "wins", "win_count", "has_checkmark"}).
			AddRow(jan(5), []byte(`["a","b"]`), 2, false))
	mock.ExpectQuery(findQuery).WithArgs("u1", jan(6)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(findQuery).WithArgs("u1", jan(7)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "wins", "win_count", "has_checkmark"}).
			AddRow(jan(7), []byte(`{"broken":true}`), 1, false))

	got, err := repo.Find(context.Background(), "u1", jan(5))
	require.NoError(t, err)
	assert.Equal(t, models.Wins{"a", "b"}, got.Wins)
	assert.Equal(t, 2, got.WinCount)

	_, err = repo.Find(context.Background(), "u1", jan(6))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Find(context.Background(), "u1", jan(7))
	assert.ErrorIs(t, err, common.ErrValidation, "stored wins are validated on read")
}

func TestCheckmarkDates(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+day\s+FROM\s+checkmark_days\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+has_checkmark\s+ORDER\s+BY\s+day\s*$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"day"}).AddRow(jan(1)).AddRow(jan(2)))

	got, err := repo.CheckmarkDates(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{jan(1), jan(2)}, got)
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	full, _ := models.NewCheckmarkDay("u1", jan(1), models.Wins{"a", "b", "c"})
	partial, _ := models.NewCheckmarkDay("u1", jan(2), models.Wins{"a"})
	require.NoError(t, r.Upsert(ctx, full))
	require.NoError(t, r.Upsert(ctx, partial))

	dates, _ := r.CheckmarkDates(ctx, "u1")
	assert.Equal(t, []time.Time{jan(1)}, dates)

	upgraded, _ := models.NewCheckmarkDay("u1", jan(2), models.Wins{"a", "b", "c"})
	require.NoError(t, r.Upsert(ctx, upgraded))
	dates, _ = r.CheckmarkDates(ctx, "u1")
	assert.Equal(t, []time.Time{jan(1), jan(2)}, dates)

	got, err := r.Find(ctx, "u1", jan(2))
	require.NoError(t, err)
	assert.True(t, got.HasCheckmark)
}
