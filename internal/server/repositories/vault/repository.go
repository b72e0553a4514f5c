package vault

import (
	"context"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*models.VaultBlob, error)
	Upsert(ctx context.Context, blob *models.VaultBlob) (*models.VaultBlob, error)
}
