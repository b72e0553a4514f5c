// Package sessions provides the PostgreSQL-backed repository for bearer
// sessions. Tokens are opaque strings matched by exact equality; expiry is
// enforced by the service at read time, so FindByToken returns expired rows
// as long as they physically exist.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

// PostgresRepository implements session storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new session row. Every login creates a new row; existing
// sessions for the same user are left untouched.
func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	query :=
		`INSERT INTO sessions (id, user_id, token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.ID, session.UserID, session.Token, session.ExpiresAt).Scan(&session.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// FindByToken returns the session owning the given token, or common.ErrorNotFound.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	query :=
		`SELECT id, user_id, token, expires_at, created_at FROM sessions
		 WHERE token = $1
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.ID, &session.UserID, &session.Token, &session.ExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// DeleteByToken removes exactly the session matching the token. Deleting an
// absent token is not an error; logout is idempotent.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	query :=
		`DELETE FROM sessions
		 WHERE token = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions whose expiry has passed and returns the
// number of rows removed. This is hygiene only: expiry is already enforced
// on every read.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM sessions
		 WHERE expires_at < $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
