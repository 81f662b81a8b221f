package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// Router holds shared dependencies for the relay's handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	adminSecret  string
	startTime    time.Time
	logger       *slog.Logger
	sessionTTL   time.Duration

	Tenants     *service.TenantRegistry
	UserService *service.UserService
}

// NewRouter creates the relay router. adminSecret gates user registration
// and changes to the default identity; empty leaves them open.
func NewRouter(buildVersion, adminSecret string, sessionTTL time.Duration, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		adminSecret:  adminSecret,
		startTime:    time.Now(),
		logger:       logger,
		sessionTTL:   sessionTTL,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerFacade()
	r.registerUsers()
	r.registerSystem()
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerFacade() {
	h := &FacadeHandler{Tenants: r.Tenants, UserService: r.UserService}

	tenanted := func(fn http.HandlerFunc, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
		mws := []httpx.Middleware{
			httpx.RateLimitByIP(limit),
			sessionUser(r.UserService),
			tenantMiddleware(r.Tenants, r.UserService),
		}
		return httpx.Chain(fn, append(mws, extra...)...)
	}

	// Changing or registering the shared default identity is an admin
	// operation; users manage only their own tenant.
	r.Mux.Handle("POST /api/register", tenanted(h.HandleRegister, httpx.ModerateLimit,
		guardDefaultTenant(r.adminSecret, ownTenant),
	))
	r.Mux.Handle("POST /api/login", tenanted(h.HandleLogin, httpx.StrictLimit))
	r.Mux.Handle("POST /api/token", tenanted(h.HandleLogin, httpx.StrictLimit))
	r.Mux.Handle("POST /api/configure", tenanted(h.HandleConfigure, httpx.ModerateLimit,
		guardDefaultTenant(r.adminSecret, signedIn),
	))
	r.Mux.Handle("GET /api/status", tenanted(h.HandleStatus, httpx.PublicLimit))
	r.Mux.Handle("GET /api/currencies", tenanted(h.HandleListCurrencies, httpx.PublicLimit))
	r.Mux.Handle("GET /api/currencies/{symbol}", tenanted(h.HandleGetCurrency, httpx.PublicLimit))
	r.Mux.Handle("GET /api/test-server", httpx.Chain(http.HandlerFunc(h.HandleTestServer),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService, Tenants: r.Tenants, SessionTTL: r.sessionTTL}

	r.Mux.Handle("POST /api/auth/login", httpx.Chain(http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.Mux.Handle("POST /api/auth/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout),
		sessionUser(r.UserService),
	))
	r.Mux.Handle("GET /api/auth/me", httpx.Chain(http.HandlerFunc(h.HandleMe),
		httpx.RateLimitByIP(httpx.PublicLimit),
		sessionUser(r.UserService),
	))
	r.Mux.Handle("POST /api/auth/register-user", httpx.Chain(http.HandlerFunc(h.HandleRegisterUser),
		httpx.RateLimitByIP(httpx.ModerateLimit),
		httpx.RequireSharedSecret(r.adminSecret),
	))
}

func (r *Router) registerSystem() {
	health := HealthHandler(r.buildVersion, r.Tenants)
	r.Mux.Handle("GET /health", health)
	r.Mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, feedsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(r.startTime).String(),
			Version: r.buildVersion,
		})
	}), httpx.RateLimitByIP(httpx.PublicLimit)))
	r.Mux.Handle("GET /metrics", httpx.MetricsHandler())
}
