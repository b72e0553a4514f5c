// Package settings provides the PostgreSQL-backed repository for the single
// encrypted settings blob each user owns. Same at-most-one-per-user upsert
// rule as the vault repository, with its own table and field names.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

// PostgresRepository implements settings blob storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser returns the user's settings blob, or common.ErrorNotFound if
// none has been saved yet.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.SettingsBlob, error) {
	query :=
		`SELECT id, user_id, encrypted_settings, iv, salt, updated_at FROM settings_blobs
		 WHERE user_id = $1
		 `

	blob := &models.SettingsBlob{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&blob.ID, &blob.UserID, &blob.EncryptedSettings, &blob.IV, &blob.Salt, &blob.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return blob, nil
}

// Upsert saves the blob keyed solely on user_id in a single statement,
// mirroring the vault upsert. Concurrent saves serialize on the unique
// user_id index; the last writer wins.
func (r *PostgresRepository) Upsert(ctx context.Context, blob *models.SettingsBlob) (*models.SettingsBlob, error) {
	query := `
		INSERT INTO settings_blobs (id, user_id, encrypted_settings, iv, salt, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			encrypted_settings = EXCLUDED.encrypted_settings,
			iv = EXCLUDED.iv,
			salt = EXCLUDED.salt,
			updated_at = now()
		RETURNING id, updated_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		blob.ID, blob.UserID, blob.EncryptedSettings, blob.IV, blob.Salt).
		Scan(&blob.ID, &blob.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return blob, nil
}
