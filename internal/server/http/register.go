package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// RegisterHandler serves POST /api/auth/register.
type RegisterHandler struct {
	ClientService *service.ClientService
}

// ServeHTTP godoc
//
//	@Summary		Register a client application
//	@Description	Creates a client identified by client_id. The secret is stored as an argon2id hash and is never returned.
//	@Description	When the server runs with ADMIN_SECRET set, the X-Admin-Secret header must carry it.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			X-Admin-Secret	header		string						false	"Administrative shared secret"
//	@Param			request			body		feedsdk.RegisterRequest		true	"Client credentials"
//	@Success		201				{object}	feedsdk.RegisterResponse	"id, client_id, app_name, message"
//	@Failure		400				{object}	feedsdk.ErrorResponse		"client_exists or invalid_request"
//	@Failure		403				{object}	feedsdk.ErrorResponse		"access_denied"
//	@Failure		429				{object}	feedsdk.ErrorResponse		"rate_limit_exceeded"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req feedsdk.RegisterRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	c, err := h.ClientService.Register(ctx, req.ClientID, req.ClientSecret, req.AppName)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidClientRequest):
		feedsdk.ErrInvalidRequest.WithDescription("client_id and client_secret are required").WriteError(w)
		return
	case errors.Is(err, service.ErrDuplicateClient):
		feedsdk.ErrClientExists.WriteError(w)
		return
	default:
		log.Error("client registration failed", "error", err)
		feedsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, feedsdk.RegisterResponse{
		ID:       c.ID,
		ClientID: c.ClientID,
		AppName:  c.AppName,
		Message:  "client registered",
	})
}
