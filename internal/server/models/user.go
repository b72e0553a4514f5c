// Package models defines the persistent entities of the vault backend. The
// server stores client-encrypted payloads verbatim; none of the encrypted
// fields are ever interpreted here.
package models

import "time"

// User is a local account record joined to the external identity provider
// by email. ID is internal, opaque, and stable once assigned.
type User struct {
	ID        string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
