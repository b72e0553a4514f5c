package models

import "time"

// Known backup types carried over from the frontend.
const (
	BackupTypeProtonExport = "proton_export"
	BackupTypeGoogleDrive  = "google_drive"
)

// Backup is an immutable encrypted snapshot. Rows are append-only and never
// merged; FileID optionally references an external object (e.g. an object
// storage key after offload).
type Backup struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	BackupType    string    `json:"backup_type"`
	EncryptedData string    `json:"encrypted_data"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	FileID        string    `json:"file_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BackupMeta is the payload-free projection used for listings. It must never
// carry EncryptedData, IV, or Salt.
type BackupMeta struct {
	ID         string    `json:"id"`
	BackupType string    `json:"backup_type"`
	FileID     string    `json:"file_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
