package models

import "time"

// RefreshToken is a credential record: the digest of one active refresh
// token. The raw token is never stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt *time.Time
}
