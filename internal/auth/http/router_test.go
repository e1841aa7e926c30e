package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/grantd/grantd/internal/auth/directory"
	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/service"
	"github.com/grantd/grantd/internal/auth/store/drivers/memory"
	"github.com/grantd/grantd/pkg/oauthx"
	"github.com/grantd/grantd/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client123"
	testClientSecret = "secret123"
	testRedirectURI  = "http://localhost:5000/callback"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st := memory.NewStore([]domain.Client{
		{
			ID:           testClientID,
			Name:         "callback-demo",
			Secret:       testClientSecret,
			RedirectURIs: []string{testRedirectURI},
			CreatedAt:    time.Now(),
		},
	})

	dir, err := directory.NewStatic([]directory.User{{ID: "1", Username: "mahasiswa"}}, "")
	require.NoError(t, err)

	logger := slogx.Discard()
	r := NewRouter("test", st, logger)
	r.AuthorizeService = &service.AuthorizeService{Store: st, Directory: dir, CodeTTL: 10 * time.Minute}
	r.TokenService = &service.TokenService{Store: st, AccessTTL: time.Hour}
	r.ResourceService = &service.ResourceService{Store: st, Directory: dir}
	r.ApplyRoutes()
	return r
}

var testIPSeq int

// doRequest executes a request against the router with a per-call client IP so
// rate limit buckets never interfere across tests.
func doRequest(t *testing.T, router *Router, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	testIPSeq++
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", testIPSeq%250+1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", testClientID)
	q.Set("redirect_uri", testRedirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return "/authorize?" + q.Encode()
}

// obtainCode drives the authorize endpoint and extracts the code query param
// from the 302 redirect.
func obtainCode(t *testing.T, router *Router) string {
	t.Helper()

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, authorizeURL("xyz"), nil))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Query().Get("code")
}

func postToken(t *testing.T, router *Router, body oauthx.TokenRequest) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, router, req)
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) oauthx.TokenResponse {
	t.Helper()

	var resp oauthx.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthorizeEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid request redirects with code and state", func(t *testing.T) {
		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, authorizeURL("opaque-state"), nil))
		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "localhost:5000", loc.Host)
		require.Equal(t, "/callback", loc.Path)
		require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), loc.Query().Get("code"))
		require.Equal(t, "opaque-state", loc.Query().Get("state"))
	})

	t.Run("state is omitted when not supplied", func(t *testing.T) {
		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, authorizeURL(""), nil))
		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.False(t, loc.Query().Has("state"))
	})

	t.Run("unknown client yields 400 without redirect", func(t *testing.T) {
		q := url.Values{}
		q.Set("response_type", "code")
		q.Set("client_id", "ghost")
		q.Set("redirect_uri", testRedirectURI)

		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/authorize?"+q.Encode(), nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_client", resp.Error)
	})

	t.Run("unregistered redirect_uri yields 400 without redirect", func(t *testing.T) {
		q := url.Values{}
		q.Set("response_type", "code")
		q.Set("client_id", testClientID)
		q.Set("redirect_uri", "http://evil.example/callback")

		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/authorize?"+q.Encode(), nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("unsupported response_type yields 400", func(t *testing.T) {
		q := url.Values{}
		q.Set("response_type", "token")
		q.Set("client_id", testClientID)
		q.Set("redirect_uri", testRedirectURI)

		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/authorize?"+q.Encode(), nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "unsupported_response_type", resp.Error)
	})
}

func TestTokenEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("authorization_code grant issues a token pair", func(t *testing.T) {
		code := obtainCode(t, router)

		rec := postToken(t, router, oauthx.TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			Code:         code,
			RedirectURI:  testRedirectURI,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		resp := decodeToken(t, rec)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, 3600, resp.ExpiresIn)
	})

	t.Run("code replay is rejected", func(t *testing.T) {
		code := obtainCode(t, router)

		body := oauthx.TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			Code:         code,
			RedirectURI:  testRedirectURI,
		}

		require.Equal(t, http.StatusOK, postToken(t, router, body).Code)

		rec := postToken(t, router, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_grant", resp.Error)
	})

	t.Run("wrong client secret is rejected", func(t *testing.T) {
		code := obtainCode(t, router)

		rec := postToken(t, router, oauthx.TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     testClientID,
			ClientSecret: "wrong",
			Code:         code,
			RedirectURI:  testRedirectURI,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_client", resp.Error)
	})

	t.Run("refresh_token grant returns only an access token", func(t *testing.T) {
		code := obtainCode(t, router)
		pair := decodeToken(t, postToken(t, router, oauthx.TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			Code:         code,
			RedirectURI:  testRedirectURI,
		}))

		rec := postToken(t, router, oauthx.TokenRequest{
			GrantType:    "refresh_token",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			RefreshToken: pair.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		refreshed := decodeToken(t, rec)
		require.NotEmpty(t, refreshed.AccessToken)
		require.NotEqual(t, pair.AccessToken, refreshed.AccessToken)
		require.Empty(t, refreshed.RefreshToken)
	})

	t.Run("unknown refresh token is rejected", func(t *testing.T) {
		rec := postToken(t, router, oauthx.TokenRequest{
			GrantType:    "refresh_token",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			RefreshToken: "bogus",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_grant", resp.Error)
	})

	t.Run("unsupported grant type is rejected", func(t *testing.T) {
		rec := postToken(t, router, oauthx.TokenRequest{
			GrantType: "password",
			ClientID:  testClientID,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "unsupported_grant_type", resp.Error)
	})

	t.Run("malformed JSON body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		rec := doRequest(t, router, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader([]byte("grant_type=authorization_code")))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := doRequest(t, router, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProfileEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid bearer token returns the profile", func(t *testing.T) {
		code := obtainCode(t, router)
		pair := decodeToken(t, postToken(t, router, oauthx.TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			Code:         code,
			RedirectURI:  testRedirectURI,
		}))

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

		rec := doRequest(t, router, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":"1","username":"mahasiswa"}`, rec.Body.String())
	})

	t.Run("missing header yields 401", func(t *testing.T) {
		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/profile", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "missing_token", resp.Error)
	})

	t.Run("forged token yields 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer forged")

		rec := doRequest(t, router, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp oauthx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "invalid_token", resp.Error)
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("livez", func(t *testing.T) {
		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/livez", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp oauthx.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "ok", resp.Status)
		require.Equal(t, "test", resp.Version)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp oauthx.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "ok", resp.Status)
		require.NotNil(t, resp.Checks)
		require.Equal(t, "ok", resp.Checks.Store)
	})
}
