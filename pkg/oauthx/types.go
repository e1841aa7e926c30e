// Package oauthx holds the wire-level types the authorization server speaks:
// RFC 6749 error values and the token/profile response shapes.
package oauthx

// TokenRequest is the JSON body accepted by the token endpoint. Fields beyond
// grant_type/client_id/client_secret are grant-dependent.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// authorization_code grant
	Code        string `json:"code,omitempty"`
	RedirectURI string `json:"redirect_uri,omitempty"`

	// refresh_token grant
	RefreshToken string `json:"refresh_token,omitempty"`
}

// TokenResponse is the success payload of the token endpoint. RefreshToken is
// present only for the authorization_code grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ProfileResponse is the minimal public projection of a user returned by the
// protected profile endpoint.
type ProfileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ErrorResponse mirrors the JSON shape WriteError emits; clients and tests
// decode rejections into it.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Store string `json:"store"`
}
