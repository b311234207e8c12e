package cursors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID string, source models.Source) (string, error) {
	query := `
		SELECT cursor FROM sync_cursors
		WHERE owner_id = $1 AND source = $2
	`
	var cursor string
	if err := r.db.QueryRowContext(ctx, query, ownerID, string(source)).Scan(&cursor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return cursor, nil
}

func (r *PostgresRepository) Save(ctx context.Context, ownerID string, source models.Source, cursor string) error {
	query := `
		INSERT INTO sync_cursors (owner_id, source, cursor, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (owner_id, source) DO UPDATE
		SET cursor = EXCLUDED.cursor, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID, string(source), cursor); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, source models.Source) error {
	query := `
		DELETE FROM sync_cursors
		WHERE owner_id = $1 AND source = $2
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID, string(source)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
