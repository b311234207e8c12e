package checkmarks

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

func (r *PostgresRepository) Upsert(ctx context.Context, d *models.CheckmarkDay) error {
	wins, err := models.EncodeWins(d.Wins)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO checkmark_days (owner_id, day, wins, win_count, has_checkmark)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, day) DO UPDATE
		SET wins = EXCLUDED.wins, win_count = EXCLUDED.win_count, has_checkmark = EXCLUDED.has_checkmark
	`
	if _, err := r.db.ExecContext(ctx, query, d.OwnerID, timex.Day(d.Day), wins, d.WinCount, d.HasCheckmark); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, ownerID string, day time.Time) (*models.CheckmarkDay, error) {
	query := `
		SELECT day, wins, win_count, has_checkmark
		FROM checkmark_days
		WHERE owner_id = $1 AND day = $2
	`
	d := &models.CheckmarkDay{OwnerID: ownerID}
	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, ownerID, timex.Day(day)).Scan(&d.Day, &raw, &d.WinCount, &d.HasCheckmark); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	wins, err := models.DecodeWins(raw)
	if err != nil {
		return nil, err
	}
	d.Wins = wins
	d.Day = timex.Day(d.Day)
	return d, nil
}

func (r *PostgresRepository) CheckmarkDates(ctx context.Context, ownerID string) ([]time.Time, error) {
	query := `
		SELECT day FROM checkmark_days
		WHERE owner_id = $1 AND has_checkmark
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, timex.Day(day))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
