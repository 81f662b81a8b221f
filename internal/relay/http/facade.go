package http

import (
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// tokenPreviewLen is how much of an access token the relay ever shows.
const tokenPreviewLen = 20

// FacadeHandler exposes the feed server through the tenant resolved for
// each request.
type FacadeHandler struct {
	Tenants     *service.TenantRegistry
	UserService *service.UserService
}

func tenantOf(r *http.Request) *service.Tenant {
	t, ok := TenantFromContext(r.Context())
	if !ok {
		panic("relay: facade handler mounted without tenantMiddleware")
	}
	return t
}

// HandleRegister registers the tenant's client identity upstream.
func (h *FacadeHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	t := tenantOf(r)

	resp, err := t.Session.Register(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Status:   "success",
		Data:     resp,
		ClientID: resp.ClientID,
	})
}

// HandleLogin forces a fresh token for the tenant. Mounted as both
// /api/login and /api/token.
func (h *FacadeHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	t := tenantOf(r)

	tok, err := t.Session.Login(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	preview := tok.AccessToken
	if len(preview) > tokenPreviewLen {
		preview = preview[:tokenPreviewLen]
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		Status:       "success",
		Message:      "authenticated with feed server",
		TokenPreview: preview + "...",
		ExpiresAt:    tok.ExpiresAt,
	})
}

// HandleConfigure swaps the tenant's identity and drops its token. For a
// logged in user the identity is also bound to the account.
func (h *FacadeHandler) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ConfigureRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		feedsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		feedsdk.ErrInvalidRequest.WithDescription("client_id and client_secret are required").WriteError(w)
		return
	}

	creds := feedsdk.Credentials{ClientID: req.ClientID, ClientSecret: req.ClientSecret, AppName: req.AppName}

	tenant := tenantOf(r)
	if u, ok := UserFromContext(ctx); ok {
		if err := h.UserService.BindCredentials(ctx, u.ID, req.ClientID, req.ClientSecret); err != nil {
			slogx.FromContext(ctx).Error("failed to bind credentials", "error", err)
			feedsdk.ErrServerError.WriteError(w)
			return
		}
		// User tenants are always named after the account.
		creds.AppName = u.Username
		tenant = h.Tenants.ForUser(u, creds)
	}

	tenant.Session.Configure(creds)
	slogx.FromContext(ctx).Info("tenant reconfigured", "tenant", tenant.Key, "client_id", creds.ClientID)

	httpx.WriteJSON(w, http.StatusOK, ConfigureResponse{
		Status:   "success",
		Message:  "credentials updated",
		ClientID: creds.ClientID,
		Tenant:   tenant.Key,
	})
}

// HandleStatus reports the tenant's authentication state.
func (h *FacadeHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	t := tenantOf(r)
	st := t.Session.Status()

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{
		SessionStatus: st,
		ServerURL:     t.Session.Client().BaseURL,
		HasToken:      st.ExpiresAt != nil,
		Tenant:        t.Key,
	})
}

func (h *FacadeHandler) HandleListCurrencies(w http.ResponseWriter, r *http.Request) {
	rates, err := tenantOf(r).Session.ListCurrencies(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rates)
}

func (h *FacadeHandler) HandleGetCurrency(w http.ResponseWriter, r *http.Request) {
	rate, err := tenantOf(r).Session.GetCurrency(r.Context(), r.PathValue("symbol"))
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rate)
}

// HandleTestServer probes the feed server's liveness. No token is needed.
func (h *FacadeHandler) HandleTestServer(w http.ResponseWriter, r *http.Request) {
	health, err := h.Tenants.Client().GetLiveness(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TestServerResponse{Status: "success", ServerResponse: health})
}
