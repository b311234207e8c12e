package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/dbx"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	query := `
		SELECT time_zone FROM user_settings
		WHERE owner_id = $1
	`
	s := &models.UserSettings{OwnerID: ownerID}
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&s.TimeZone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (owner_id, time_zone)
		VALUES ($1, $2)
		ON CONFLICT (owner_id) DO UPDATE
		SET time_zone = EXCLUDED.time_zone
	`
	if _, err := r.db.ExecContext(ctx, query, s.OwnerID, s.TimeZone); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
