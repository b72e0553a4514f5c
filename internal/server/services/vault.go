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

// VaultService stores and returns each user's single encrypted data blob.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager) *VaultService {
	return &VaultService{db: db, repomanager: m}
}

// Get returns the user's blob, or nil with no error when nothing has been
// saved yet. An empty vault is a normal state, not a failure.
func (s *VaultService) Get(ctx context.Context, userID string) (*models.VaultBlob, error) {
	repo := s.repomanager.Vault(s.db)

	blob, err := repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting data: %w", err)
	}

	return blob, nil
}

// Save replaces the user's blob. Concurrent saves serialize in the storage
// layer; the last writer wins and at most one row exists afterwards.
func (s *VaultService) Save(ctx context.Context, userID string, encryptedData, iv, salt string) (*models.VaultBlob, error) {
	if encryptedData == "" || iv == "" || salt == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Vault(s.db)

	blob := &models.VaultBlob{
		ID:            uuid.NewString(),
		UserID:        userID,
		EncryptedData: encryptedData,
		IV:            iv,
		Salt:          salt,
		Version:       1,
	}

	blob, err := repo.Upsert(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("error saving data: %w", err)
	}

	return blob, nil
}
