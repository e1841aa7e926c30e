package directory

import (
	"context"
	"errors"
)

// Static is a fixed in-process directory seeded from configuration. Every
// Authenticate call resolves to the configured principal (by default the
// first seeded user), standing in for a real login flow. Swap in another
// Directory implementation to wire real authentication without touching the
// engine.
type Static struct {
	users     map[string]User
	principal string
}

// NewStatic builds a Static directory from the seeded users. The principal
// defaults to the first user; pass principalID to pick another.
func NewStatic(users []User, principalID string) (*Static, error) {
	if len(users) == 0 {
		return nil, errors.New("directory: at least one user is required")
	}

	byID := make(map[string]User, len(users))
	for _, u := range users {
		if u.ID == "" {
			return nil, errors.New("directory: user id must not be empty")
		}
		if _, dup := byID[u.ID]; dup {
			return nil, errors.New("directory: duplicate user id " + u.ID)
		}
		byID[u.ID] = u
	}

	if principalID == "" {
		principalID = users[0].ID
	}
	if _, ok := byID[principalID]; !ok {
		return nil, errors.New("directory: principal " + principalID + " is not a seeded user")
	}

	return &Static{users: byID, principal: principalID}, nil
}

func (d *Static) Authenticate(_ context.Context) (string, error) {
	if d.principal == "" {
		return "", ErrUnauthenticated
	}
	return d.principal, nil
}

func (d *Static) Lookup(_ context.Context, userID string) (User, error) {
	u, ok := d.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
