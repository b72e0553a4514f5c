package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/obsidianvault/internal/dbx"
	"github.com/dmitrijs2005/obsidianvault/internal/logging"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	backupsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/backups"
	credentialsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/repomanager"
	sessionsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/sessions"
	settingsrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/settings"
	usersrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/users"
	vaultrepo "github.com/dmitrijs2005/obsidianvault/internal/server/repositories/vault"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getByEmailOut *models.User
	getByEmailErr error

	getByIDOut *models.User
	getByIDErr error

	updateProfileErr     error
	updateProfileCalled  bool
	updateProfileName    string
	updateProfilePicture string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.getByEmailOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.getByIDOut, nil
}
func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, name string, picture string) error {
	f.updateProfileCalled = true
	f.updateProfileName = name
	f.updateProfilePicture = picture
	return f.updateProfileErr
}

type fakeSessionsRepo struct {
	created   *models.Session
	createErr error

	findOut *models.Session
	findErr error

	deletedToken string
	deleteErr    error

	deleteExpiredN   int64
	deleteExpiredErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = s
	return s, nil
}
func (f *fakeSessionsRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}
func (f *fakeSessionsRepo) DeleteByToken(ctx context.Context, token string) error {
	f.deletedToken = token
	return f.deleteErr
}
func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteExpiredN, f.deleteExpiredErr
}

type fakeVaultRepo struct {
	getOut *models.VaultBlob
	getErr error

	upserted  *models.VaultBlob
	upsertErr error
}

func (f *fakeVaultRepo) GetByUser(ctx context.Context, userID string) (*models.VaultBlob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeVaultRepo) Upsert(ctx context.Context, blob *models.VaultBlob) (*models.VaultBlob, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = blob
	return blob, nil
}

type fakeSettingsRepo struct {
	getOut *models.SettingsBlob
	getErr error

	upserted  *models.SettingsBlob
	upsertErr error
}

func (f *fakeSettingsRepo) GetByUser(ctx context.Context, userID string) (*models.SettingsBlob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeSettingsRepo) Upsert(ctx context.Context, blob *models.SettingsBlob) (*models.SettingsBlob, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = blob
	return blob, nil
}

type fakeCredentialsRepo struct {
	created   *models.Credential
	createErr error

	listOut []*models.Credential
	listErr error

	deleteErr error
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = c
	return c, nil
}
func (f *fakeCredentialsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeCredentialsRepo) Delete(ctx context.Context, userID string, credentialID string) error {
	return f.deleteErr
}

type fakeBackupsRepo struct {
	created   *models.Backup
	createErr error

	listOut []*models.BackupMeta
	listErr error

	getOut *models.Backup
	getErr error

	setFileID    string
	setFileIDErr error
}

func (f *fakeBackupsRepo) Create(ctx context.Context, b *models.Backup) (*models.Backup, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = b
	return b, nil
}
func (f *fakeBackupsRepo) ListMetaByUser(ctx context.Context, userID string) ([]*models.BackupMeta, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}
func (f *fakeBackupsRepo) GetByID(ctx context.Context, userID string, id string) (*models.Backup, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeBackupsRepo) SetFileID(ctx context.Context, id string, fileID string) error {
	if f.setFileIDErr != nil {
		return f.setFileIDErr
	}
	f.setFileID = fileID
	return nil
}

// --- fake repository manager ---

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

type fakeRepoManager struct {
	u  *fakeUsersRepo
	s  *fakeSessionsRepo
	v  *fakeVaultRepo
	st *fakeSettingsRepo
	c  *fakeCredentialsRepo
	b  *fakeBackupsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository {
	return m.s
}
func (m *fakeRepoManager) Vault(db dbx.DBTX) vaultrepo.Repository       { return m.v }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository { return m.st }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository {
	return m.c
}
func (m *fakeRepoManager) Backups(db dbx.DBTX) backupsrepo.Repository { return m.b }
