package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/grantd/grantd/internal/auth/service"
	"github.com/grantd/grantd/pkg/oauthx"
)

// AuthorizeHandler processes OAuth2 authorization requests (authorization code flow).
type AuthorizeHandler struct {
	AuthorizeService *service.AuthorizeService
	Logger           *slog.Logger
}

// HandleGet processes GET requests to the authorization endpoint.
//
// On success the user agent is redirected (302) to redirect_uri with code and,
// when supplied, the caller's state echoed verbatim. Per RFC 6749 section
// 3.1.2.3 an invalid client or redirect_uri never triggers a redirect; those
// failures come back as 400 JSON to the caller directly.
func (h *AuthorizeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if h.AuthorizeService == nil {
		oauthx.ErrServerError.WriteError(w)
		return
	}

	query := r.URL.Query()
	req := service.AuthorizeRequest{
		ResponseType: strings.TrimSpace(query.Get("response_type")),
		ClientID:     strings.TrimSpace(query.Get("client_id")),
		RedirectURI:  strings.TrimSpace(query.Get("redirect_uri")),
		State:        query.Get("state"),
	}

	resp, err := h.AuthorizeService.IssueAuthorizationCode(r.Context(), req)
	if err != nil {
		h.writeAuthorizeError(w, req, err)
		return
	}

	redirectURL, err := buildAuthorizeRedirect(resp.RedirectURI, resp.Code, resp.State)
	if err != nil {
		h.logger().Error("failed to build redirect URL", "error", err)
		oauthx.ErrServerError.WriteError(w)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

func (h *AuthorizeHandler) writeAuthorizeError(w http.ResponseWriter, req service.AuthorizeRequest, err error) {
	logger := h.logger()

	switch {
	case errors.Is(err, service.ErrInvalidClient):
		logger.Debug("authorize rejected: unknown client", slog.String("client_id", req.ClientID))
		oauthx.ErrInvalidClient.WriteError(w)
	case errors.Is(err, service.ErrInvalidRedirect):
		logger.Debug("authorize rejected: redirect_uri mismatch",
			slog.String("client_id", req.ClientID),
			slog.String("redirect_uri", req.RedirectURI),
		)
		oauthx.ErrInvalidRedirect.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedResponseType):
		oauthx.ErrUnsupportedResponseType.WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		oauthx.ErrInvalidRequest.WriteError(w)
	default:
		logger.Error("authorize request failed", "error", err)
		oauthx.ErrServerError.WriteError(w)
	}
}

func (h *AuthorizeHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// buildAuthorizeRedirect appends code and state to the redirect URI while
// preserving any query parameters the client registered.
func buildAuthorizeRedirect(redirectURI, code, state string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
