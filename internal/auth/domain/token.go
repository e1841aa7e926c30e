package domain

import "time"

// TokenPair represents what the token endpoint returns: the short-lived
// opaque access token and, on the code grant, the opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string        // empty on the refresh grant
	TokenType    string        // always "Bearer"
	ExpiresIn    time.Duration // access-token lifetime
}

// AccessToken models a stored access token record. The record keeps the
// token's fingerprint, never its raw value.
type AccessToken struct {
	ID        string
	UserID    string
	ClientID  string
	TokenHash string // base64url SHA-256 of the opaque token
	ExpiresAt time.Time
	CreatedAt time.Time
}

// RefreshToken models a stored refresh token record. Refresh tokens carry no
// expiry and are not rotated on use; they stay redeemable by the client they
// were issued to until the process exits.
type RefreshToken struct {
	ID        string
	UserID    string
	ClientID  string
	TokenHash string
	CreatedAt time.Time
}
