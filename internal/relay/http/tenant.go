package http

import (
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// SessionCookie holds the opaque session token of a logged in user.
const SessionCookie = "session_token"

// sessionUser attaches the logged in user to the request when the cookie
// is valid. Invalid cookies are ignored here; handlers that need a user
// check for one.
func sessionUser(users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.VerifySession(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := withUser(r.Context(), u)
			ctx = slogx.With(ctx, "user_id", u.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tenantMiddleware picks the feed identity for the request: the logged in
// user's bound credentials when there are any, otherwise the relay's own.
// Mount it after sessionUser.
func tenantMiddleware(tenants *service.TenantRegistry, users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			tenant := tenants.Default()

			if u, ok := UserFromContext(ctx); ok {
				creds, bound, err := users.Credentials(u)
				if err != nil {
					slogx.FromContext(ctx).Error("failed to open bound credentials", "error", err)
					feedsdk.ErrServerError.WriteError(w)
					return
				}
				if bound {
					tenant = tenants.ForUser(u, creds)
				}
			}

			ctx = withTenant(ctx, tenant)
			ctx = slogx.With(ctx, "tenant", tenant.Key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// guardDefaultTenant requires the relay admin secret when a request would
// act on the relay's own identity. Requests for which exempt reports true
// pass through ungated. Mount it after tenantMiddleware.
func guardDefaultTenant(secret string, exempt func(*http.Request) bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		gated := httpx.RequireSharedSecret(secret)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt(r) {
				next.ServeHTTP(w, r)
				return
			}
			gated.ServeHTTP(w, r)
		})
	}
}

// ownTenant reports whether the request resolved to a user's tenant.
func ownTenant(r *http.Request) bool {
	t, ok := TenantFromContext(r.Context())
	return ok && !t.IsDefault()
}

// signedIn reports whether the request carries a logged in user. Configure
// always targets that user's own tenant.
func signedIn(r *http.Request) bool {
	_, ok := UserFromContext(r.Context())
	return ok
}
