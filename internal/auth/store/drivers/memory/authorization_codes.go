package memory

import (
	"context"
	"sync"
	"time"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
)

type authorizationCodesRepo struct {
	mu    sync.Mutex
	codes map[string]domain.AuthorizationCode // keyed by code fingerprint
}

func newAuthorizationCodesRepo() *authorizationCodesRepo {
	return &authorizationCodesRepo{codes: make(map[string]domain.AuthorizationCode)}
}

func (r *authorizationCodesRepo) CreateAuthorizationCode(_ context.Context, code domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[code.CodeHash]; exists {
		return store.ErrAlreadyExists
	}
	r.codes[code.CodeHash] = code
	return nil
}

// RedeemAuthorizationCode holds the repository lock across the whole
// check-then-consume sequence. Two concurrent redemptions of the same code
// serialize here; the loser finds the entry gone and reports ErrNotFound.
func (r *authorizationCodesRepo) RedeemAuthorizationCode(
	_ context.Context,
	codeHash, clientID string,
	now time.Time,
) (domain.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.codes[codeHash]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	if now.After(code.ExpiresAt) {
		// Expired codes can never become redeemable again; purge eagerly.
		delete(r.codes, codeHash)
		return domain.AuthorizationCode{}, store.ErrExpired
	}
	if code.ClientID != clientID {
		return domain.AuthorizationCode{}, store.ErrClientMismatch
	}

	usedAt := now
	code.UsedAt = &usedAt
	delete(r.codes, codeHash)

	return code, nil
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, code := range r.codes {
		if now.After(code.ExpiresAt) {
			delete(r.codes, hash)
		}
	}
	return nil
}
