package http

import (
	"net/http"
	"time"

	"github.com/grantd/grantd/internal/auth/store"
	"github.com/grantd/grantd/pkg/httpx"
	"github.com/grantd/grantd/pkg/oauthx"
)

// ReadyzHandler is the readiness probe. It checks the backing store and
// reports 503 with per-dependency detail when anything is degraded.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &oauthx.HealthChecks{
			Store: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Store = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := oauthx.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
