package quotes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, q *models.QuoteEntry) (bool, error) {
	query := `
		INSERT INTO quotes (quote_date, text, author, fetched_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (quote_date) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, timex.Day(q.Date), q.Text, q.Author, q.FetchedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) FindByDate(ctx context.Context, day time.Time) (*models.QuoteEntry, error) {
	query := `
		SELECT quote_date, text, author, fetched_at
		FROM quotes
		WHERE quote_date = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, timex.Day(day)))
}

func (r *PostgresRepository) LatestBefore(ctx context.Context, day time.Time) (*models.QuoteEntry, error) {
	query := `
		SELECT quote_date, text, author, fetched_at
		FROM quotes
		WHERE quote_date < $1
		ORDER BY quote_date DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, timex.Day(day)))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.QuoteEntry, error) {
	q := &models.QuoteEntry{}
	if err := row.Scan(&q.Date, &q.Text, &q.Author, &q.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	q.Date = timex.Day(q.Date)
	return q, nil
}
