package domain

import (
	"crypto/subtle"
	"time"
)

// Client is a registered OAuth2 client. Clients are immutable after
// registration; the registry is seeded once at startup.
type Client struct {
	ID           string
	Name         string
	Secret       string // opaque shared secret, compared by exact match
	RedirectURIs []string
	CreatedAt    time.Time
}

// RedirectAllowed reports whether uri exactly matches one of the client's
// registered redirect targets. No pattern or prefix matching.
func (c *Client) RedirectAllowed(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// SecretMatches compares the presented secret against the registered one in
// constant time.
func (c *Client) SecretMatches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Secret), []byte(secret)) == 1
}
