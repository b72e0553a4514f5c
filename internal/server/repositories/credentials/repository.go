package credentials

import (
	"context"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Credential, error)
	Delete(ctx context.Context, userID string, credentialID string) error
}
