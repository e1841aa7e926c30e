package memory

import (
	"context"

	"github.com/grantd/grantd/internal/auth/domain"
	"github.com/grantd/grantd/internal/auth/store"
)

// clientsRepo is read-only after construction, so lookups need no locking.
type clientsRepo struct {
	clients map[string]domain.Client
}

func (r *clientsRepo) GetClientByID(_ context.Context, id string) (domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return domain.Client{}, store.ErrNotFound
	}
	return c, nil
}
