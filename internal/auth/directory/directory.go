// Package directory defines the UserDirectory collaborator: the external
// system that authenticates users and resolves user identifiers. How real
// authentication happens is out of this engine's hands; the engine only needs
// a stable user id before minting a code, and a public projection when a
// resource is served.
package directory

import (
	"context"
	"errors"
)

// ErrNotFound reports an unknown user id.
var ErrNotFound = errors.New("directory: user not found")

// ErrUnauthenticated reports that no principal could be established.
var ErrUnauthenticated = errors.New("directory: no authenticated principal")

// User is the minimal public projection of a principal.
type User struct {
	ID       string
	Username string
}

// Directory is the UserDirectory contract consumed by the authorization
// endpoint (Authenticate) and the resource guard (Lookup).
type Directory interface {
	// Authenticate establishes the current principal and returns its user id.
	Authenticate(ctx context.Context) (string, error)

	// Lookup resolves a user id to its public projection.
	Lookup(ctx context.Context, userID string) (User, error)
}
