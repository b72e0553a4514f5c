// Package services contains the business logic of the vault backend. Each
// service owns one aggregate, talks to repositories through the
// RepositoryManager, and returns sentinel errors from internal/common; the
// HTTP layer owns the status-code mapping.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/logging"
	"github.com/dmitrijs2005/obsidianvault/internal/server/config"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProviderProfile is the body the external identity provider returns for a
// one-time session identifier. Only Email is required.
type ProviderProfile struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// AuthService resolves identities against the external provider and owns the
// session lifecycle. Exchange is the only place provider trust enters the
// system; every later request authenticates by local token lookup.
type AuthService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	client          *http.Client
	providerURL     string
	sessionValidity time.Duration
	logger          logging.Logger
	now             func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:              db,
		repomanager:     m,
		client:          &http.Client{Timeout: cfg.AuthRequestTimeout},
		providerURL:     cfg.AuthProviderURL,
		sessionValidity: cfg.SessionValidityDuration,
		logger:          logger.With("module", "auth"),
		now:             time.Now,
	}
}

// fetchProfile exchanges the one-time session identifier with the provider.
// Any failure mode (transport error, non-200 status, malformed body, missing
// email) collapses into common.ErrUpstreamAuth; a session is never fabricated.
func (s *AuthService) fetchProfile(ctx context.Context, sessionID string) (*ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.providerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building provider request: %v", common.ErrUpstreamAuth, err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: provider call failed: %v", common.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", common.ErrUpstreamAuth, resp.StatusCode)
	}

	profile := &ProviderProfile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("%w: decoding provider response: %v", common.ErrUpstreamAuth, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: provider response missing email", common.ErrUpstreamAuth)
	}

	return profile, nil
}

// ExchangeSession turns a one-time session identifier into a local user and
// a freshly persisted session. An existing user is matched by email and gets
// its display fields refreshed; a new user gets a minted opaque id. The token
// is the provider's when supplied, otherwise generated locally. User write
// and session insert commit in one transaction.
func (s *AuthService) ExchangeSession(ctx context.Context, sessionID string) (*models.User, string, error) {
	if sessionID == "" {
		return nil, "", common.ErrorValidation
	}

	profile, err := s.fetchProfile(ctx, sessionID)
	if err != nil {
		s.logger.Warn(ctx, "identity exchange failed", "error", err)
		return nil, "", err
	}

	token := profile.SessionToken
	if token == "" {
		token = uuid.NewString()
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userRepo := s.repomanager.Users(tx)

		user, err = userRepo.GetByEmail(ctx, profile.Email)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			id, err := common.NewUserID()
			if err != nil {
				return err
			}

			user, err = userRepo.Create(ctx, &models.User{
				ID:      id,
				Email:   profile.Email,
				Name:    profile.Name,
				Picture: profile.Picture,
			})
			if err != nil {
				return err
			}
		} else {
			if err := userRepo.UpdateProfile(ctx, user.ID, profile.Name, profile.Picture); err != nil {
				return err
			}
			user.Name = profile.Name
			user.Picture = profile.Picture
		}

		sessionRepo := s.repomanager.Sessions(tx)
		_, err = sessionRepo.Create(ctx, &models.Session{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Token:     token,
			ExpiresAt: s.now().UTC().Add(s.sessionValidity),
		})
		return err
	})

	if err != nil {
		return nil, "", fmt.Errorf("error creating session: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Expiry is enforced here,
// at read time, so a stale row that the cleanup ticker has not reached yet
// still cannot authenticate.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotAuthenticated
	}

	sessionRepo := s.repomanager.Sessions(s.db)

	session, err := sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidSession
		}
		return nil, common.ErrorInternal
	}

	if session.ExpiresAt.Before(s.now().UTC()) {
		return nil, common.ErrSessionExpired
	}

	userRepo := s.repomanager.Users(s.db)

	user, err := userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Logout deletes the session matching the token. A missing token or an
// already-deleted session is a successful no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionRepo := s.repomanager.Sessions(s.db)
	return sessionRepo.DeleteByToken(ctx, token)
}

// StartCleanup purges expired session rows on a ticker until ctx is done.
// Authentication never depends on it; this is storage hygiene.
func (s *AuthService) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessionRepo := s.repomanager.Sessions(s.db)
				n, err := sessionRepo.DeleteExpired(ctx, s.now().UTC())
				if err != nil {
					s.logger.Error(ctx, "session cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					s.logger.Info(ctx, "expired sessions purged", "count", n)
				}
			}
		}
	}()
}
