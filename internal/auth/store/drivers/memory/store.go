// Package memory implements the store contracts with mutex-guarded maps.
// All state is process-lifetime; nothing persists. Each repository owns one
// mutex held across every check-then-mutate sequence, which is what makes
// code redemption exactly-once under concurrent attempts.
package memory

import (
	"context"
	"time"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
)

type Store struct {
	clients       *clientsRepo
	codes         *authorizationCodesRepo
	accessTokens  *accessTokensRepo
	refreshTokens *refreshTokensRepo
}

// NewStore builds an in-memory store seeded with the registered clients.
// The registry is immutable after this call.
func NewStore(clients []domain.Client) *Store {
	byID := make(map[string]domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	return &Store{
		clients:       &clientsRepo{clients: byID},
		codes:         newAuthorizationCodesRepo(),
		accessTokens:  newAccessTokensRepo(),
		refreshTokens: newRefreshTokensRepo(),
	}
}

func (s *Store) Clients() store.Clients                       { return s.clients }
func (s *Store) AuthorizationCodes() store.AuthorizationCodes { return s.codes }
func (s *Store) AccessTokens() store.AccessTokens             { return s.accessTokens }
func (s *Store) RefreshTokens() store.RefreshTokens           { return s.refreshTokens }

// Sweep drops authorization codes and access tokens that expired before now.
// Refresh tokens carry no expiry and are left alone.
func (s *Store) Sweep(ctx context.Context, now time.Time) error {
	if err := s.codes.DeleteExpiredAuthorizationCodes(ctx, now); err != nil {
		return err
	}
	return s.accessTokens.DeleteExpiredAccessTokens(ctx, now)
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }
