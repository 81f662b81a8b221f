package http

import (
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
)

// HealthHandler reports liveness and whether the default tenant currently
// holds a valid token.
func HealthHandler(version string, tenants *service.TenantRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:        "healthy",
			Authenticated: tenants.Default().Session.IsValid(),
			Tenants:       tenants.Len(),
			Version:       version,
		})
	}
}
