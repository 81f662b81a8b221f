package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// Principal is whoever a verified bearer token was issued to.
type Principal struct {
	Subject   string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ErrAuthUnavailable marks authenticator failures that say nothing about
// the token, such as an unreachable database.
var ErrAuthUnavailable = errors.New("authenticator unavailable")

// Authenticator resolves a raw bearer token to a principal. Errors wrapping
// ErrAuthUnavailable are reported as 503; any other error as a generic
// invalid_token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (Principal, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// AuthnMiddleware runs the authenticator on every request and stores the
// principal in the request context. Nothing is cached between requests.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := a.Authenticate(ctx, raw)
			if errors.Is(err, ErrAuthUnavailable) {
				log.Error("bearer token could not be checked", "err", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error":             "temporarily_unavailable",
					"error_description": "could not validate credentials, try again later",
				})
				return
			}
			if err != nil {
				log.Warn("bearer token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, p)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": "could not validate credentials",
	})
}
