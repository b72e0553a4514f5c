package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
