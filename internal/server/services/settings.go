package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SettingsService stores and returns each user's single encrypted settings
// blob, with the same one-row-per-user rule as VaultService.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repomanager: m}
}

// Get returns the user's settings blob, or nil with no error when nothing
// has been saved yet.
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.SettingsBlob, error) {
	repo := s.repomanager.Settings(s.db)

	blob, err := repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting settings: %w", err)
	}

	return blob, nil
}

// Save replaces the user's settings blob.
func (s *SettingsService) Save(ctx context.Context, userID string, encryptedSettings, iv, salt string) (*models.SettingsBlob, error) {
	if encryptedSettings == "" || iv == "" || salt == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Settings(s.db)

	blob := &models.SettingsBlob{
		ID:                uuid.NewString(),
		UserID:            userID,
		EncryptedSettings: encryptedSettings,
		IV:                iv,
		Salt:              salt,
	}

	blob, err := repo.Upsert(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}

	return blob, nil
}
