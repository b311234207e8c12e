package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, c *models.SyncCredential) error {
	query := `
		INSERT INTO sync_credentials (owner_id, source, ciphertext, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (owner_id, source) DO UPDATE
		SET ciphertext = EXCLUDED.ciphertext, expires_at = EXCLUDED.expires_at, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, c.OwnerID, string(c.Source), c.Ciphertext, c.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, ownerID string, source models.Source) (*models.SyncCredential, error) {
	query := `
		SELECT ciphertext, expires_at, updated_at
		FROM sync_credentials
		WHERE owner_id = $1 AND source = $2
	`
	c := &models.SyncCredential{OwnerID: ownerID, Source: source}
	var expires sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, ownerID, string(source)).Scan(&c.Ciphertext, &expires, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expires.Valid {
		c.ExpiresAt = &expires.Time
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, source models.Source) error {
	query := `
		DELETE FROM sync_credentials
		WHERE owner_id = $1 AND source = $2
	`
	if _, err := r.db.ExecContext(ctx, query, ownerID, string(source)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
