package models

import "time"

// Session is a bearer session. Token is an opaque secret compared for exact
// equality, never decoded. A user may hold many live sessions at once.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
