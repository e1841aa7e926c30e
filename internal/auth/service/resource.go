package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grantd/grantd/internal/auth/directory"
	"github.com/grantd/grantd/internal/auth/store"
	"github.com/grantd/grantd/pkg/cryptox"
)

var (
	ErrMissingToken = errors.New("missing_token")
	ErrInvalidToken = errors.New("invalid_token")
)

// ResourceService guards protected resources behind bearer-token validation.
type ResourceService struct {
	Store     store.Store
	Directory directory.Directory
}

// Profile resolves an Authorization header value to the token owner's profile.
//
// The header must carry the "Bearer <token>" scheme. The token is validated by
// fingerprint lookup; validation is read-only and does not consume the token.
//
// Returns ErrMissingToken when no usable bearer credential is present and
// ErrInvalidToken when the token is unknown or expired.
func (s *ResourceService) Profile(ctx context.Context, authorization string) (directory.User, error) {
	raw, err := parseBearer(authorization)
	if err != nil {
		return directory.User{}, err
	}

	record, err := s.Store.AccessTokens().GetAccessTokenByHash(ctx, cryptox.FingerprintToken(raw), time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrExpired) {
			return directory.User{}, ErrInvalidToken
		}
		return directory.User{}, err
	}

	user, err := s.Directory.Lookup(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return directory.User{}, ErrInvalidToken
		}
		return directory.User{}, err
	}

	return user, nil
}

func parseBearer(authorization string) (string, error) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}
