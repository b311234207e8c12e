package events

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert relies on xmax being zero only for freshly inserted tuples.
func (r *PostgresRepository) Upsert(ctx context.Context, e *models.CalendarEvent) (bool, error) {
	query := `
		INSERT INTO calendar_events (owner_id, source_event_id, summary, start_at, end_at, all_day, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (owner_id, source_event_id) DO UPDATE
		SET summary = EXCLUDED.summary, start_at = EXCLUDED.start_at, end_at = EXCLUDED.end_at,
			all_day = EXCLUDED.all_day, updated_at = now()
		RETURNING (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query, e.OwnerID, e.SourceEventID, e.Summary, e.StartAt, e.EndAt, e.AllDay).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return inserted, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, sourceEventID string) (bool, error) {
	query := `
		DELETE FROM calendar_events
		WHERE owner_id = $1 AND source_event_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, sourceEventID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Starts(ctx context.Context, ownerID string, from, to time.Time) ([]models.EventStart, error) {
	query := `
		SELECT start_at, all_day FROM calendar_events
		WHERE owner_id = $1 AND start_at >= $2 AND start_at < $3
		ORDER BY start_at
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.EventStart
	for rows.Next() {
		var es models.EventStart
		if err := rows.Scan(&es.At, &es.AllDay); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, es)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
