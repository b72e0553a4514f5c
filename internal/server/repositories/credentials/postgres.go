// Package credentials provides the PostgreSQL-backed repository for stored
// WebAuthn public-key records. Credential IDs are issued by client-side
// authenticators and are unique across all users; no signature verification
// happens on the server.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository implements credential storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a new credential row. A credential_id already present
// anywhere in the registry yields common.ErrDuplicateCredential.
func (r *PostgresRepository) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	query :=
		`INSERT INTO webauthn_credentials (id, user_id, credential_id, public_key, counter)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		credential.ID, credential.UserID, credential.CredentialID,
		credential.PublicKey, credential.Counter).Scan(&credential.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}

// ListByUser returns all credentials owned by userID in insertion order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	query :=
		`SELECT id, user_id, credential_id, public_key, counter, created_at FROM webauthn_credentials
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		var item models.Credential
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.CredentialID, &item.PublicKey,
			&item.Counter, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the credential matching credentialID, scoped to userID.
// Zero rows affected yields common.ErrorNotFound — an existing credential
// owned by someone else is indistinguishable from a nonexistent one.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, credentialID string) error {
	query :=
		`DELETE FROM webauthn_credentials
		 WHERE user_id = $1 AND credential_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, credentialID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
