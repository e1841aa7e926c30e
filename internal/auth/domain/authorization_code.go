package domain

import "time"

// AuthorizationCode represents an OAuth 2.0 authorization code issuance.
// Only the SHA-256 fingerprint of the opaque code is stored; the raw code
// exists solely in the redirect handed back to the client.
type AuthorizationCode struct {
	ID          string
	UserID      string
	ClientID    string
	CodeHash    string
	RedirectURI string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}
