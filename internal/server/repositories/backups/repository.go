package backups

import (
	"context"

	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, backup *models.Backup) (*models.Backup, error)
	ListMetaByUser(ctx context.Context, userID string) ([]*models.BackupMeta, error)
	GetByID(ctx context.Context, userID string, id string) (*models.Backup, error)
	SetFileID(ctx context.Context, id string, fileID string) error
}
