package httpx

import (
	"crypto/subtle"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// Middleware wraps a handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first one listed is the
// outermost: Chain(h, a, b) serves a(b(h)).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SharedSecretHeader carries the administrative secret for gated operations.
const SharedSecretHeader = "X-Admin-Secret"

// RequireSharedSecret gates a route behind a static administrative secret
// sent in SharedSecretHeader. An empty secret disables the gate.
func RequireSharedSecret(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SharedSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				slogx.FromContext(r.Context()).Warn("admin secret rejected", "path", r.URL.Path)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "access_denied",
					"error_description": "invalid admin secret",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
