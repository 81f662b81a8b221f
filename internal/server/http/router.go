package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"

	_ "github.com/aussiebroadwan/cryptofeed/api/server" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	adminSecret  string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	ClientService *service.ClientService
	TokenService  *service.TokenService
	MarketService *service.MarketService
}

// NewRouter creates a router. An empty adminSecret leaves registration open.
func NewRouter(buildVersion, adminSecret string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		adminSecret:  adminSecret,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Metrics sits innermost so it sees the pattern set by the mux.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MetricsMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCurrency()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Cryptofeed API
//	@version		0.1.0
//	@description	OAuth2 client credentials authorization server and protected market data feed.
//	@description
//	@description				Access tokens are HS256 signed JWTs issued to registered client applications.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/cryptofeed
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authenticator() httpx.Authenticator {
	return &clientAuthenticator{tokens: r.TokenService}
}

func (r *Router) registerAuth() {
	// POST /register - moderate rate limit by IP, optionally gated by the admin secret
	registerHandler := &RegisterHandler{ClientService: r.ClientService}
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireSharedSecret(r.adminSecret),
		),
	)

	// POST /token - strict rate limit by IP
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /api/auth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	introspectHandler := &IntrospectHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /api/auth/introspect",
		httpx.Chain(introspectHandler,
			httpx.AuthnMiddleware(r.authenticator()),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCurrency() {
	h := &CurrencyHandler{MarketService: r.MarketService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.authenticator()),
			httpx.RateLimitBySubject(httpx.PublicLimit),
		)
	}

	r.Mux.Handle("GET /api/currency", secured(h.HandleList))
	r.Mux.Handle("GET /api/currency/{$}", secured(h.HandleList))
	r.Mux.Handle("GET /api/currency/{symbol}", secured(h.HandleGet))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics", httpx.MetricsHandler())
}
