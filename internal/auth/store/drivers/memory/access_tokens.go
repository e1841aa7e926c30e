package memory

import (
	"context"
	"sync"
	"time"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
)

type accessTokensRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.AccessToken // keyed by token fingerprint
}

func newAccessTokensRepo() *accessTokensRepo {
	return &accessTokensRepo{tokens: make(map[string]domain.AccessToken)}
}

func (r *accessTokensRepo) CreateAccessToken(_ context.Context, t domain.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.TokenHash]; exists {
		return store.ErrAlreadyExists
	}
	r.tokens[t.TokenHash] = t
	return nil
}

// GetAccessTokenByHash validates without consuming. Expiry is lazy: a stale
// entry is dropped the first time anyone presents it.
func (r *accessTokensRepo) GetAccessTokenByHash(
	_ context.Context,
	hash string,
	now time.Time,
) (domain.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[hash]
	if !ok {
		return domain.AccessToken{}, store.ErrNotFound
	}
	if now.After(t.ExpiresAt) {
		delete(r.tokens, hash)
		return domain.AccessToken{}, store.ErrExpired
	}
	return t, nil
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, hash)
		}
	}
	return nil
}
