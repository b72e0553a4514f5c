// Package vault provides the PostgreSQL-backed repository for the single
// encrypted data blob each user owns. The ciphertext, iv, and salt are
// opaque; the server stores and returns them byte-for-byte.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

// PostgresRepository implements vault blob storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUser returns the user's blob, or common.ErrorNotFound if none has
// been saved yet. The caller treats absence as an empty vault, not a failure.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.VaultBlob, error) {
	query :=
		`SELECT id, user_id, encrypted_data, iv, salt, version, updated_at, created_at FROM vault_blobs
		 WHERE user_id = $1
		 `

	blob := &models.VaultBlob{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&blob.ID, &blob.UserID, &blob.EncryptedData, &blob.IV, &blob.Salt,
		&blob.Version, &blob.UpdatedAt, &blob.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return blob, nil
}

// Upsert saves the blob keyed solely on user_id in a single statement. The
// unique index on user_id makes concurrent saves serialize in the database;
// the last writer's ciphertext wins and at most one row can ever exist per
// user. The supplied id and created_at only take effect on first insert.
func (r *PostgresRepository) Upsert(ctx context.Context, blob *models.VaultBlob) (*models.VaultBlob, error) {
	query := `
		INSERT INTO vault_blobs (id, user_id, encrypted_data, iv, salt, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			encrypted_data = EXCLUDED.encrypted_data,
			iv = EXCLUDED.iv,
			salt = EXCLUDED.salt,
			version = EXCLUDED.version,
			updated_at = now()
		RETURNING id, updated_at, created_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		blob.ID, blob.UserID, blob.EncryptedData, blob.IV, blob.Salt, blob.Version).
		Scan(&blob.ID, &blob.UpdatedAt, &blob.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return blob, nil
}
