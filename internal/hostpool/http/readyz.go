package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
	"github.com/aussiebroadwan/hostpool/pkg/poolsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that token verification keys are loaded
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	poolsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	poolsdk.HealthResponse	"degraded"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &poolsdk.HealthChecks{Database: "ok", Keys: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if !keys.IsReady() {
			checks.Keys = "error: no verification keys loaded"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, poolsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
