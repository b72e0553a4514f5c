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

// CredentialService manages the WebAuthn credential registry. The material
// is stored as the authenticator issued it; no ceremony verification happens
// on the server.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager) *CredentialService {
	return &CredentialService{db: db, repomanager: m}
}

// Register stores a new credential. A credential_id already registered by
// any user yields common.ErrDuplicateCredential.
func (s *CredentialService) Register(ctx context.Context, userID, credentialID, publicKey string) (*models.Credential, error) {
	if credentialID == "" || publicKey == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Credentials(s.db)

	credential, err := repo.Create(ctx, &models.Credential{
		ID:           uuid.NewString(),
		UserID:       userID,
		CredentialID: credentialID,
		PublicKey:    publicKey,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("error registering credential: %w", err)
	}

	return credential, nil
}

// List returns all of the user's credentials in registration order.
func (s *CredentialService) List(ctx context.Context, userID string) ([]*models.Credential, error) {
	repo := s.repomanager.Credentials(s.db)

	list, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}

	return list, nil
}

// Remove deletes the user's credential. A credential that does not exist and
// one owned by another user both yield common.ErrorNotFound.
func (s *CredentialService) Remove(ctx context.Context, userID, credentialID string) error {
	repo := s.repomanager.Credentials(s.db)

	err := repo.Delete(ctx, userID, credentialID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting credential: %w", err)
	}

	return nil
}
