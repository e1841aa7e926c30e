package http

import (
	"net/http"
	"time"

	"github.com/grantd/grantd/pkg/httpx"
	"github.com/grantd/grantd/pkg/oauthx"
)

// LivezHandler is the liveness probe. It returns 200 with uptime and version
// for as long as the process is running.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := oauthx.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
