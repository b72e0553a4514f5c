package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/obsidianvault/internal/common"
	"github.com/dmitrijs2005/obsidianvault/internal/logging"
	sc "github.com/dmitrijs2005/obsidianvault/internal/server/config"
	"github.com/dmitrijs2005/obsidianvault/internal/server/models"
	"github.com/dmitrijs2005/obsidianvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BackupService owns the append-only archive of encrypted snapshots. When
// object storage is configured, each snapshot's ciphertext is also copied
// there and file_id records the object key; the database row stays the
// authority either way.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *BackupService {
	return &BackupService{
		db:          db,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "backups"),
	}
}

// GetStorageKey builds a date-bucketed object key for a user's snapshot.
func GetStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("backups/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return client, nil
}

// offload copies the snapshot ciphertext to object storage and returns the
// object key.
func (s *BackupService) offload(ctx context.Context, backup *models.Backup) (string, error) {
	client, err := s.getS3Client()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := GetStorageKey(backup.UserID)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   strings.NewReader(backup.EncryptedData),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

// Create appends a new snapshot. An empty backupType falls back to
// models.BackupTypeProtonExport. Offload failures are logged and do not fail
// the request; the row already holds the ciphertext.
func (s *BackupService) Create(ctx context.Context, userID, backupType, encryptedData, iv, salt string) (*models.Backup, error) {
	if encryptedData == "" || iv == "" || salt == "" {
		return nil, common.ErrorValidation
	}
	if backupType == "" {
		backupType = models.BackupTypeProtonExport
	}

	repo := s.repomanager.Backups(s.db)

	backup, err := repo.Create(ctx, &models.Backup{
		ID:            uuid.NewString(),
		UserID:        userID,
		BackupType:    backupType,
		EncryptedData: encryptedData,
		IV:            iv,
		Salt:          salt,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating backup: %w", err)
	}

	if s.config.OffloadEnabled() {
		key, err := s.offload(ctx, backup)
		if err != nil {
			s.logger.Warn(ctx, "backup offload failed", "backup_id", backup.ID, "error", err)
			return backup, nil
		}
		if err := repo.SetFileID(ctx, backup.ID, key); err != nil {
			s.logger.Warn(ctx, "recording offload key failed", "backup_id", backup.ID, "error", err)
			return backup, nil
		}
		backup.FileID = key
	}

	return backup, nil
}

// List returns newest-first metadata for the user's snapshots. Payloads are
// never loaded for listings.
func (s *BackupService) List(ctx context.Context, userID string) ([]*models.BackupMeta, error) {
	repo := s.repomanager.Backups(s.db)

	list, err := repo.ListMetaByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing backups: %w", err)
	}

	return list, nil
}

// Get returns the full snapshot scoped to the user, plus a presigned
// download URL when the snapshot was offloaded and object storage is still
// configured. A presign failure only drops the URL.
func (s *BackupService) Get(ctx context.Context, userID, id string) (*models.Backup, string, error) {
	repo := s.repomanager.Backups(s.db)

	backup, err := repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	if backup.FileID == "" || !s.config.OffloadEnabled() {
		return backup, "", nil
	}

	client, err := s.getS3Client()
	if err != nil {
		s.logger.Warn(ctx, "presign unavailable", "backup_id", backup.ID, "error", err)
		return backup, "", nil
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &backup.FileID,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.logger.Warn(ctx, "presign failed", "backup_id", backup.ID, "error", err)
		return backup, "", nil
	}

	return backup, req.URL, nil
}
