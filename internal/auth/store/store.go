package store

import (
	"context"
	"errors"
	"time"

	"github.com/grantd/grantd/internal/auth/domain"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrExpired        = errors.New("store: expired")
	ErrClientMismatch = errors.New("store: client mismatch")
	ErrAlreadyExists  = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory today,
// a persistent driver later) implement this. It exposes sub-repositories to
// keep concerns tidy and testable.
//
// Every sub-repository operation is atomic with respect to other operations
// on the same repository; in particular RedeemAuthorizationCode performs its
// check-then-consume as one unit, so concurrent redemptions of the same code
// yield exactly one success. Callers never see the backing maps.
type Store interface {
	Clients() Clients
	AuthorizationCodes() AuthorizationCodes
	AccessTokens() AccessTokens
	RefreshTokens() RefreshTokens

	// Sweep reclaims entries that expired before now. Expiry is checked
	// lazily on access, so correctness never depends on sweeping; it only
	// bounds memory growth.
	Sweep(ctx context.Context, now time.Time) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the store is still usable.
	Ping(ctx context.Context) error
}

// Clients is the read-only client registry. It is seeded at construction and
// never mutated afterwards.
type Clients interface {
	// GetClientByID returns a registered client or ErrNotFound. Callers
	// translate absence into a protocol-level error.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
}

type AuthorizationCodes interface {
	// CreateAuthorizationCode stores a freshly minted authorization code.
	CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error

	// RedeemAuthorizationCode atomically consumes the code identified by its
	// fingerprint. It fails with ErrNotFound when the code is unknown or
	// already consumed, ErrExpired when now is past its expiry, and
	// ErrClientMismatch when it was issued to a different client. On success
	// the code is marked used and its record returned; a second attempt
	// observes ErrNotFound.
	RedeemAuthorizationCode(ctx context.Context, codeHash, clientID string, now time.Time) (domain.AuthorizationCode, error)

	// DeleteExpiredAuthorizationCodes is optional housekeeping.
	DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) error
}

type AccessTokens interface {
	// CreateAccessToken stores a new access token record.
	CreateAccessToken(ctx context.Context, t domain.AccessToken) error

	// GetAccessTokenByHash returns the bound identity for a live token.
	// Read-only: it never consumes. Unknown fingerprints yield ErrNotFound,
	// expired ones ErrExpired (and the stale record is dropped).
	GetAccessTokenByHash(ctx context.Context, hash string, now time.Time) (domain.AccessToken, error)

	// DeleteExpiredAccessTokens is optional housekeeping.
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// UseRefreshToken returns the record bound to the fingerprint, checked
	// against the calling client. ErrNotFound for unknown tokens,
	// ErrClientMismatch when the binding differs. The token is not consumed
	// and stays redeemable.
	UseRefreshToken(ctx context.Context, hash, clientID string) (domain.RefreshToken, error)
}
