package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/store"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Returns 503 when the database cannot be reached.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	feedsdk.HealthResponse	"status, uptime, version"
//	@Failure		503	{object}	feedsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Warn("readiness check failed", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, feedsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
