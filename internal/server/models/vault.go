package models

import "time"

// VaultBlob is the single encrypted data blob a user owns. At most one row
// exists per user; saves replace the ciphertext in place.
type VaultBlob struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	EncryptedData string    `json:"encrypted_data"`
	IV            string    `json:"iv"`
	Salt          string    `json:"salt"`
	Version       int       `json:"version"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// SettingsBlob is the single encrypted settings blob a user owns, with the
// same at-most-one-per-user upsert rule as VaultBlob.
type SettingsBlob struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EncryptedSettings string    `json:"encrypted_settings"`
	IV                string    `json:"iv"`
	Salt              string    `json:"salt"`
	UpdatedAt         time.Time `json:"updated_at"`
}
