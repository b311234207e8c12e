package commits

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

func (r *PostgresRepository) Insert(ctx context.Context, c *models.CommitRecord) (bool, error) {
	query := `
		INSERT INTO commits (owner_id, sha, repo, message, committed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, sha) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, c.OwnerID, c.SHA, c.Repo, c.Message, c.CommittedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) CommittedAt(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT committed_at FROM commits
		WHERE owner_id = $1 AND committed_at >= $2 AND committed_at < $3
		ORDER BY committed_at
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
