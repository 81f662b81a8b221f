package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// IntrospectHandler serves POST /api/auth/introspect following RFC 7662.
// The caller authenticates with its own bearer token. A "token" form field
// names the token to inspect; without one the caller's token is inspected.
type IntrospectHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Introspection Endpoint
//	@Description	Introspects a token and returns metadata about it (RFC 7662)
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	formData	string							false	"The token to introspect, defaults to the bearer token"
//	@Success		200		{object}	feedsdk.IntrospectionResponse	"Token introspection result"
//	@Failure		401		{object}	feedsdk.ErrorResponse			"invalid_token"
//	@Failure		500		{object}	feedsdk.ErrorResponse			"server_error"
//	@Header			200		{string}	Cache-Control					"no-store"
//	@Router			/api/auth/introspect [post].
func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		feedsdk.ErrInvalidRequest.WithDescription("invalid form body").WriteError(w)
		return
	}

	token := r.PostForm.Get("token")
	if token == "" {
		token, _ = httpx.BearerToken(r)
	}

	c, claims, err := h.TokenService.Inspect(ctx, token)
	if err != nil && !errors.Is(err, service.ErrInvalidToken) {
		log.Error("introspection failed", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}
	if err != nil {
		log.Debug("introspected token is inactive", "error", err)
		httpx.WriteJSON(w, http.StatusOK, feedsdk.IntrospectionResponse{Active: false})
		return
	}

	resp := feedsdk.IntrospectionResponse{
		Active:    true,
		Sub:       claims.Subject,
		ClientID:  c.ClientID,
		AppName:   c.AppName,
		TokenType: domain.TokenTypeBearer,
		Iss:       claims.Issuer,
		Jti:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		resp.Exp = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		resp.Iat = claims.IssuedAt.Unix()
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
