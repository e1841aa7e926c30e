package memory

import (
	"context"
	"sync"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
)

type refreshTokensRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken // keyed by token fingerprint
}

func newRefreshTokensRepo() *refreshTokensRepo {
	return &refreshTokensRepo{tokens: make(map[string]domain.RefreshToken)}
}

func (r *refreshTokensRepo) CreateRefreshToken(_ context.Context, t domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.TokenHash]; exists {
		return store.ErrAlreadyExists
	}
	r.tokens[t.TokenHash] = t
	return nil
}

// UseRefreshToken enforces the client binding but never consumes: the same
// refresh token stays redeemable indefinitely (no rotation, no expiry).
func (r *refreshTokensRepo) UseRefreshToken(
	_ context.Context,
	hash, clientID string,
) (domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[hash]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	if t.ClientID != clientID {
		return domain.RefreshToken{}, store.ErrClientMismatch
	}
	return t, nil
}
