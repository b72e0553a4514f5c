package settings

import (
	"context"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*models.SettingsBlob, error)
	Upsert(ctx context.Context, blob *models.SettingsBlob) (*models.SettingsBlob, error)
}
