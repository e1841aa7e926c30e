package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/grantd/grantd/internal/auth/service"
	"github.com/grantd/grantd/pkg/httpx"
	"github.com/grantd/grantd/pkg/oauthx"
	"github.com/grantd/grantd/pkg/slogx"
)

// TokenHandler serves POST /token.
// Accepts a JSON request body carrying the grant parameters.
type TokenHandler struct {
	TokenService *service.TokenService
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		oauthx.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Decode the JSON body
	var req oauthx.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		oauthx.ErrInvalidJSONBody.WriteError(w)
		return
	}

	// 3. Handle the grant type
	switch req.GrantType {
	case "authorization_code":
		h.handleAuthorizationCodeGrant(w, r, req)
	case "refresh_token":
		h.handleRefreshGrant(w, r, req)
	default:
		oauthx.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handleAuthorizationCodeGrant(w http.ResponseWriter, r *http.Request, req oauthx.TokenRequest) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := strings.TrimSpace(req.Code)
	clientID := strings.TrimSpace(req.ClientID)
	if code == "" || clientID == "" {
		oauthx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangeAuthorizationCode(ctx, clientID, req.ClientSecret, code, req.RedirectURI)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClient):
			oauthx.ErrInvalidClient.WriteError(w)
		case errors.Is(err, service.ErrInvalidGrant):
			oauthx.ErrInvalidGrant.WriteError(w)
		default:
			log.Error("authorization_code grant failed", "err", err)
			oauthx.ErrServerError.WriteError(w)
		}
		return
	}

	response := oauthx.TokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		RefreshToken: pair.RefreshToken,
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request, req oauthx.TokenRequest) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := strings.TrimSpace(req.RefreshToken)
	clientID := strings.TrimSpace(req.ClientID)
	if refresh == "" || clientID == "" {
		oauthx.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangeRefreshToken(ctx, clientID, req.ClientSecret, refresh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			oauthx.ErrInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrInvalidClient):
			oauthx.ErrInvalidClient.WriteError(w)
		default:
			log.Error("refresh grant failed", "err", err)
			oauthx.ErrServerError.WriteError(w)
		}
		return
	}

	response := oauthx.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
