package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/grantd/grantd/internal/auth/directory"
	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
	"github.com/grantd/grantd/pkg/cryptox"
	"github.com/grantd/grantd/pkg/idx"
	"github.com/grantd/grantd/pkg/slogx"
)

var (
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrInvalidClient           = errors.New("invalid_client")
	ErrInvalidRedirect         = errors.New("invalid_redirect_uri")
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")
)

// AuthorizeService encapsulates the OAuth2 authorization-code issuance flow.
type AuthorizeService struct {
	Store     store.Store
	Directory directory.Directory
	CodeTTL   time.Duration
}

// AuthorizeRequest captures the query parameters of an authorization request.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	State        string
}

// AuthorizeCodeResponse contains the authorization code and redirect information.
// This is returned on successful authorization and should be used to build the redirect.
type AuthorizeCodeResponse struct {
	Code        string
	RedirectURI string
	State       string
}

// IssueAuthorizationCode implements the authorization half of the OAuth2
// authorization code flow per RFC 6749 section 4.1.
//
// It validates the client and redirect URI against the registry, resolves the
// authenticated principal through the directory, and mints a short-lived
// single-use authorization code bound to both. The raw code is returned to the
// caller for the redirect; only its fingerprint is stored.
//
// Returns:
//   - (*AuthorizeCodeResponse, nil) on success
//   - (nil, ErrUnsupportedResponseType) when response_type is not "code"
//   - (nil, ErrInvalidRequest) when required parameters are missing
//   - (nil, ErrInvalidClient) when client_id is unknown
//   - (nil, ErrInvalidRedirect) when redirect_uri is not registered for the client
func (s *AuthorizeService) IssueAuthorizationCode(ctx context.Context, req AuthorizeRequest) (*AuthorizeCodeResponse, error) {
	log := slogx.FromContext(ctx)

	clientID := strings.TrimSpace(req.ClientID)
	redirectURI := strings.TrimSpace(req.RedirectURI)
	if clientID == "" || redirectURI == "" {
		return nil, ErrInvalidRequest
	}
	if !strings.EqualFold(strings.TrimSpace(req.ResponseType), "code") {
		return nil, ErrUnsupportedResponseType
	}

	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("authorize: unknown client", "client_id", clientID)
			return nil, ErrInvalidClient
		}
		return nil, err
	}

	if !client.RedirectAllowed(redirectURI) {
		log.Warn("authorize: redirect_uri not registered", "client_id", clientID, "redirect_uri", redirectURI)
		return nil, ErrInvalidRedirect
	}

	userID, err := s.Directory.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	code, err := cryptox.GenerateHexToken(cryptox.TokenSize128)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	record := domain.AuthorizationCode{
		ID:          idx.New().String(),
		UserID:      userID,
		ClientID:    client.ID,
		CodeHash:    cryptox.FingerprintToken(code),
		RedirectURI: redirectURI,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}

	if err := s.Store.AuthorizationCodes().CreateAuthorizationCode(ctx, record); err != nil {
		return nil, err
	}

	log.Info("authorization code issued", "client_id", client.ID, "user_id", userID)

	return &AuthorizeCodeResponse{
		Code:        code,
		RedirectURI: redirectURI,
		State:       req.State,
	}, nil
}
