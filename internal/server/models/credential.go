package models

import "time"

// Credential is a stored WebAuthn public-key record. The server keeps the
// material the authenticator issued and performs no signature verification.
// CredentialID is globally unique across all users.
type Credential struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CredentialID string    `json:"credential_id"`
	PublicKey    string    `json:"public_key"`
	Counter      int64     `json:"counter"`
	CreatedAt    time.Time `json:"created_at"`
}
