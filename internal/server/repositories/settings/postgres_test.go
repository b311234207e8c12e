package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	getQuery := `(?s)^SELECT\s+time_zone\s+FROM\s+user_settings\s+WHERE\s+owner_id\s*=\s*\$1\s*$`
	mock.ExpectQuery(getQuery).WithArgs("u1").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_settings\b.*ON\s+CONFLICT\s+\(owner_id\)\s+DO\s+UPDATE\b`).
		WithArgs("u1", "Europe/Riga").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(getQuery).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"time_zone"}).AddRow("Europe/Riga"))

	_, err = repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Save(context.Background(), &models.UserSettings{OwnerID: "u1", TimeZone: "Europe/Riga"}))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, &models.UserSettings{OwnerID: "u1", TimeZone: "Europe/Riga"}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.Save(context.Background(), &models.UserSettings{OwnerID: "u1", TimeZone: "Asia/Tokyo"}))
	got, err := r.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", got.TimeZone)
}
