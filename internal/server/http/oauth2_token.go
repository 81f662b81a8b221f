package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// TokenHandler serves POST /api/auth/token. It accepts a JSON body or an
// RFC 6749 form body; grant_type may be omitted but must be
// client_credentials when present.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Exchanges client credentials for a bearer access token (client_credentials grant).
//	@Tags			Auth
//	@Accept			json
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		feedsdk.TokenRequest	true	"client_id and client_secret"
//	@Success		200		{object}	feedsdk.TokenResponse	"access_token, token_type, expires_in"
//	@Failure		400		{object}	feedsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	feedsdk.ErrorResponse	"invalid_client"
//	@Failure		429		{object}	feedsdk.ErrorResponse	"rate_limit_exceeded"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Header			200		{string}	Pragma					"no-cache"
//	@Router			/api/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, grantType, err := readTokenRequest(w, r)
	if err != nil {
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}
	if grantType != "" && grantType != "client_credentials" {
		feedsdk.ErrInvalidRequest.WithDescription("unsupported grant_type").WriteError(w)
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		feedsdk.ErrInvalidRequest.WithDescription("client_id and client_secret are required").WriteError(w)
		return
	}

	tok, err := h.TokenService.ExchangeClientCredentials(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			feedsdk.ErrInvalidClient.WriteError(w)
			return
		}
		log.Error("token exchange failed", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, feedsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
	})
}

// readTokenRequest decodes the body according to its Content-Type. A
// missing Content-Type is treated as JSON.
func readTokenRequest(w http.ResponseWriter, r *http.Request) (feedsdk.TokenRequest, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return feedsdk.TokenRequest{}, "", errors.New("invalid form body")
		}
		return feedsdk.TokenRequest{
			ClientID:     r.PostForm.Get("client_id"),
			ClientSecret: r.PostForm.Get("client_secret"),
		}, r.PostForm.Get("grant_type"), nil
	}

	var body struct {
		feedsdk.TokenRequest
		GrantType string `json:"grant_type"`
	}
	if err := httpx.ReadJSON(w, r, &body); err != nil {
		return feedsdk.TokenRequest{}, "", err
	}
	return body.TokenRequest, body.GrantType, nil
}
