package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
	"github.com/grantd/grantd/pkg/cryptox"
	"github.com/grantd/grantd/pkg/idx"
	"github.com/grantd/grantd/pkg/slogx"
)

var (
	ErrInvalidGrant   = errors.New("invalid_grant")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)

// TokenService implements the token endpoint grants. Access and refresh
// tokens are opaque random strings; only SHA-256 fingerprints reach the store.
type TokenService struct {
	Store     store.Store
	AccessTTL time.Duration
}

// ExchangeAuthorizationCode implements the OAuth2 authorization_code grant.
//
// It authenticates the client, atomically redeems the single-use code, checks
// that redirect_uri matches the one presented at authorization time, and
// issues a fresh access/refresh token pair.
func (s *TokenService) ExchangeAuthorizationCode(
	ctx context.Context,
	clientID, clientSecret, code, redirectURI string,
) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	code = strings.TrimSpace(code)
	redirectURI = strings.TrimSpace(redirectURI)
	if code == "" {
		return nil, ErrInvalidGrant
	}

	authCode, err := s.Store.AuthorizationCodes().RedeemAuthorizationCode(ctx, cryptox.FingerprintToken(code), client.ID, now)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrExpired):
			l.Info("authorization_code grant rejected", slog.String("client_id", client.ID), slog.Any("error", err))
			return nil, ErrInvalidGrant
		case errors.Is(err, store.ErrClientMismatch):
			l.Warn("authorization code presented by wrong client", slog.String("client_id", client.ID))
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	// The redirect_uri must match the one the code was issued against.
	if redirectURI != "" && authCode.RedirectURI != redirectURI {
		l.Warn("redirect_uri mismatch at exchange", slog.String("client_id", client.ID))
		return nil, ErrInvalidGrant
	}

	return s.issueTokenPair(ctx, now, authCode.UserID, client.ID, true)
}

// ExchangeRefreshToken implements the OAuth2 refresh_token grant.
//
// The presented refresh token is validated against its fingerprint and client
// binding but is not consumed; the same token may be replayed to mint further
// access tokens. Only a new access token is returned.
func (s *TokenService) ExchangeRefreshToken(
	ctx context.Context,
	clientID, clientSecret, refreshToken string,
) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	client, err := s.authenticateClient(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}

	record, err := s.Store.RefreshTokens().UseRefreshToken(ctx, cryptox.FingerprintToken(refreshToken), client.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrInvalidRefresh
		case errors.Is(err, store.ErrClientMismatch):
			l.Warn("refresh token presented by wrong client", slog.String("client_id", client.ID))
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	return s.issueTokenPair(ctx, now, record.UserID, client.ID, false)
}

func (s *TokenService) authenticateClient(ctx context.Context, clientID, clientSecret string) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.Client{}, ErrInvalidClient
	}

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("token grant client authentication failed", slog.String("client_id", clientID))
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, err
	}

	if !client.SecretMatches(clientSecret) {
		l.Info("token grant client authentication failed", slog.String("client_id", clientID))
		return domain.Client{}, ErrInvalidClient
	}

	return client, nil
}

// issueTokenPair mints an opaque access token, and optionally a refresh token,
// bound to the given user and client.
func (s *TokenService) issueTokenPair(ctx context.Context, now time.Time, userID, clientID string, withRefresh bool) (*domain.TokenPair, error) {
	accessOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	access := domain.AccessToken{
		ID:        idx.New().String(),
		UserID:    userID,
		ClientID:  clientID,
		TokenHash: cryptox.FingerprintToken(accessOpaque),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.AccessTokens().CreateAccessToken(ctx, access); err != nil {
		return nil, err
	}

	pair := &domain.TokenPair{
		AccessToken: accessOpaque,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
	}

	if withRefresh {
		refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return nil, err
		}

		refresh := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    userID,
			ClientID:  clientID,
			TokenHash: cryptox.FingerprintToken(refreshOpaque),
			CreatedAt: now,
		}
		if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, refresh); err != nil {
			return nil, err
		}

		pair.RefreshToken = refreshOpaque
	}

	return pair, nil
}
