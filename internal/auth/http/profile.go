package http

import (
	"errors"
	"net/http"

	"github.com/grantd/grantd/internal/auth/service"
	"github.com/grantd/grantd/pkg/httpx"
	"github.com/grantd/grantd/pkg/oauthx"
	"github.com/grantd/grantd/pkg/slogx"
)

// ProfileHandler serves GET /profile, a bearer-protected resource returning
// the token owner's public profile.
type ProfileHandler struct {
	ResourceService *service.ResourceService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.ResourceService.Profile(ctx, r.Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			oauthx.ErrMissingToken.WriteError(w)
		case errors.Is(err, service.ErrInvalidToken):
			oauthx.ErrInvalidToken.WriteError(w)
		default:
			log.Error("profile lookup failed", "err", err)
			oauthx.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, oauthx.ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}
