package locks

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

func (r *PostgresRepository) Acquire(ctx context.Context, ownerID string, source models.Source, holder string, now time.Time, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO sync_locks (owner_id, source, holder, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, source) DO UPDATE
		SET holder = EXCLUDED.holder, expires_at = EXCLUDED.expires_at
		WHERE sync_locks.expires_at <= $5
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, string(source), holder, now.Add(ttl), now)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Release(ctx context.Context, ownerID string, source models.Source, holder string) error {
	query := `
		DELETE FROM sync_locks
		WHERE owner_id = $1 AND source = $2 AND holder = $3
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID, string(source), holder); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
