package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/logging"
	"github.com/dmitrijs2005/obsidianvault/internal/server/config"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	backupsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/backups"
	credentialsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/repomanager"
	sessionsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/sessions"
	settingsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/settings"
	usersrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/users"
	vaultrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/vault"
	"github.com/dmitrijs2005/obsidianvault/internal/server/services"
)

// --- in-memory repositories ---
//
// Handler tests run against real services wired to these fakes, so the full
// request path from route to sentinel-to-status mapping is exercised.

type memUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (m *memUsersRepo) add(u *models.User) {
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
}

func (m *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.CreatedAt = time.Now().UTC()
	m.add(u)
	return u, nil
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsersRepo) UpdateProfile(ctx context.Context, id string, name string, picture string) error {
	u, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = name
	u.Picture = picture
	return nil
}

type memSessionsRepo struct {
	byToken map[string]*models.Session
}

func newMemSessionsRepo() *memSessionsRepo {
	return &memSessionsRepo{byToken: map[string]*models.Session{}}
}

func (m *memSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	s.CreatedAt = time.Now().UTC()
	m.byToken[s.Token] = s
	return s, nil
}

func (m *memSessionsRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (m *memSessionsRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

func (m *memSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for token, s := range m.byToken {
		if s.ExpiresAt.Before(now) {
			delete(m.byToken, token)
			n++
		}
	}
	return n, nil
}

type memVaultRepo struct {
	byUser map[string]*models.VaultBlob
}

func newMemVaultRepo() *memVaultRepo {
	return &memVaultRepo{byUser: map[string]*models.VaultBlob{}}
}

func (m *memVaultRepo) GetByUser(ctx context.Context, userID string) (*models.VaultBlob, error) {
	b, ok := m.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (m *memVaultRepo) Upsert(ctx context.Context, blob *models.VaultBlob) (*models.VaultBlob, error) {
	if prev, ok := m.byUser[blob.UserID]; ok {
		blob.ID = prev.ID
		blob.CreatedAt = prev.CreatedAt
	} else {
		blob.CreatedAt = time.Now().UTC()
	}
	blob.UpdatedAt = time.Now().UTC()
	m.byUser[blob.UserID] = blob
	return blob, nil
}

type memSettingsRepo struct {
	byUser map[string]*models.SettingsBlob
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{byUser: map[string]*models.SettingsBlob{}}
}

func (m *memSettingsRepo) GetByUser(ctx context.Context, userID string) (*models.SettingsBlob, error) {
	b, ok := m.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (m *memSettingsRepo) Upsert(ctx context.Context, blob *models.SettingsBlob) (*models.SettingsBlob, error) {
	if prev, ok := m.byUser[blob.UserID]; ok {
		blob.ID = prev.ID
	}
	blob.UpdatedAt = time.Now().UTC()
	m.byUser[blob.UserID] = blob
	return blob, nil
}

type memCredentialsRepo struct {
	items []*models.Credential
}

func (m *memCredentialsRepo) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	for _, item := range m.items {
		if item.CredentialID == c.CredentialID {
			return nil, common.ErrDuplicateCredential
		}
	}
	c.CreatedAt = time.Now().UTC()
	m.items = append(m.items, c)
	return c, nil
}

func (m *memCredentialsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	result := []*models.Credential{}
	for _, item := range m.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *memCredentialsRepo) Delete(ctx context.Context, userID string, credentialID string) error {
	for i, item := range m.items {
		if item.UserID == userID && item.CredentialID == credentialID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memBackupsRepo struct {
	items []*models.Backup
}

func (m *memBackupsRepo) Create(ctx context.Context, b *models.Backup) (*models.Backup, error) {
	b.CreatedAt = time.Now().UTC()
	m.items = append(m.items, b)
	return b, nil
}

func (m *memBackupsRepo) ListMetaByUser(ctx context.Context, userID string) ([]*models.BackupMeta, error) {
	result := []*models.BackupMeta{}
	for i := len(m.items) - 1; i >= 0; i-- {
		item := m.items[i]
		if item.UserID == userID {
			result = append(result, &models.BackupMeta{
				ID: item.ID, BackupType: item.BackupType, FileID: item.FileID, CreatedAt: item.CreatedAt,
			})
		}
	}
	return result, nil
}

func (m *memBackupsRepo) GetByID(ctx context.Context, userID string, id string) (*models.Backup, error) {
	for _, item := range m.items {
		if item.UserID == userID && item.ID == id {
			return item, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memBackupsRepo) SetFileID(ctx context.Context, id string, fileID string) error {
	for _, item := range m.items {
		if item.ID == id {
			item.FileID = fileID
			return nil
		}
	}
	return common.ErrorNotFound
}

// --- repository manager over the fakes ---

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

type memRepoManager struct {
	u  *memUsersRepo
	s  *memSessionsRepo
	v  *memVaultRepo
	st *memSettingsRepo
	c  *memCredentialsRepo
	b  *memBackupsRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		u:  newMemUsersRepo(),
		s:  newMemSessionsRepo(),
		v:  newMemVaultRepo(),
		st: newMemSettingsRepo(),
		c:  &memCredentialsRepo{},
		b:  &memBackupsRepo{},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *memRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository { return m.s }
func (m *memRepoManager) Vault(db dbx.DBTX) vaultrepo.Repository       { return m.v }
func (m *memRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository { return m.st }
func (m *memRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository {
	return m.c
}
func (m *memRepoManager) Backups(db dbx.DBTX) backupsrepo.Repository { return m.b }

// --- server under test ---

type testEnv struct {
	server *httptest.Server
	rm     *memRepoManager
	mock   sqlmock.Sqlmock
}

// newTestEnv wires a full Server over the in-memory repositories. The
// sqlmock connection only ever sees transaction begin/commit traffic.
func newTestEnv(t *testing.T, providerURL string) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	rm := newMemRepoManager()

	cfg := &config.Config{
		EndpointAddrHTTP:        ":0",
		AuthProviderURL:         providerURL,
		AuthRequestTimeout:      2 * time.Second,
		SessionValidityDuration: 7 * 24 * time.Hour,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := NewServer(cfg,
		services.NewAuthService(db, rm, cfg, logger),
		services.NewVaultService(db, rm),
		services.NewSettingsService(db, rm),
		services.NewCredentialService(db, rm),
		services.NewBackupService(db, rm, cfg, logger),
		logger,
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, rm: rm, mock: mock}
}

// seedSession installs a user with a live session and returns the token.
func (e *testEnv) seedSession(t *testing.T, userID string) string {
	t.Helper()

	e.rm.u.add(&models.User{ID: userID, Email: userID + "@example.com", Name: "Test User"})

	token := "tok-" + userID
	e.rm.s.byToken[token] = &models.Session{
		ID: "sess-" + userID, UserID: userID, Token: token,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	return token
}
