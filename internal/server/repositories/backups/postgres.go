// Package backups provides the PostgreSQL-backed repository for the
// append-only archive of encrypted snapshots. Rows are only ever inserted;
// there is no update or delete path for the payload.
package backups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

// PostgresRepository implements backup storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new snapshot row and returns it with created_at filled in.
func (r *PostgresRepository) Create(ctx context.Context, backup *models.Backup) (*models.Backup, error) {
	query :=
		`INSERT INTO backups (id, user_id, backup_type, encrypted_data, iv, salt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		backup.ID, backup.UserID, backup.BackupType,
		backup.EncryptedData, backup.IV, backup.Salt).Scan(&backup.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return backup, nil
}

// ListMetaByUser returns newest-first metadata for the user's snapshots.
// The payload columns are never selected here; listings stay cheap no matter
// how large the archived blobs grow.
func (r *PostgresRepository) ListMetaByUser(ctx context.Context, userID string) ([]*models.BackupMeta, error) {
	query :=
		`SELECT id, backup_type, file_id, created_at FROM backups
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.BackupMeta{}
	for rows.Next() {
		item := &models.BackupMeta{}
		var fileID sql.NullString
		if err := rows.Scan(&item.ID, &item.BackupType, &fileID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.FileID = fileID.String
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetByID returns the full snapshot, payload included. The lookup is scoped
// to userID so a snapshot owned by someone else reads as common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id string) (*models.Backup, error) {
	query :=
		`SELECT id, user_id, backup_type, encrypted_data, iv, salt, file_id, created_at FROM backups
		 WHERE user_id = $1 AND id = $2
		 `

	backup := &models.Backup{}
	var fileID sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&backup.ID, &backup.UserID, &backup.BackupType,
		&backup.EncryptedData, &backup.IV, &backup.Salt,
		&fileID, &backup.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	backup.FileID = fileID.String
	return backup, nil
}

// SetFileID records the external object key after a successful offload.
func (r *PostgresRepository) SetFileID(ctx context.Context, id string, fileID string) error {
	query :=
		`UPDATE backups SET file_id = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, fileID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
