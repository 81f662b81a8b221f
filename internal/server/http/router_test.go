package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	serverhttp "github.com/aussiebroadwan/cryptofeed/internal/server/http"
	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store/drivers/sqlite"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/jwtx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "feed-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var testSecret = []byte("router-test-secret-router-test-secret")

// newServer starts an in-process feed server with a seeded market.
func newServer(t *testing.T, adminSecret string) *httptest.Server {
	t.Helper()
	srv, _ := newServerWithStore(t, adminSecret)
	return srv
}

func newServerWithStore(t *testing.T, adminSecret string) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256("", testSecret)
	require.NoError(t, err)

	logger := slogx.Discard()
	market := service.NewMarketService(st, logger, time.Hour)
	require.NoError(t, market.Seed(t.Context()))

	router := serverhttp.NewRouter("test", adminSecret, st, logger)
	router.ClientService = &service.ClientService{Store: st}
	router.TokenService = &service.TokenService{
		Store:     st,
		Signer:    signer,
		Verifier:  jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: "cryptofeed"}),
		Issuer:    "cryptofeed",
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}
	router.MarketService = market
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, st
}

func get(t *testing.T, srv *httptest.Server, path, authorization string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestEndToEnd(t *testing.T) {
	srv := newServer(t, "")
	client := feedsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	reg, err := client.Register(ctx, feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1", AppName: "App1"})
	require.NoError(t, err)
	require.Positive(t, reg.ID)
	require.Equal(t, "c1", reg.ClientID)

	tok, err := client.RequestToken(ctx, "c1", "s1")
	require.NoError(t, err)
	require.Equal(t, "bearer", tok.TokenType)
	require.Equal(t, 7200, tok.ExpiresIn)

	t.Run("BTC is served", func(t *testing.T) {
		rate, err := client.GetCurrency(ctx, tok.AccessToken, "BTC")
		require.NoError(t, err)
		require.Equal(t, "BTC", rate.Symbol)
		require.Greater(t, rate.Rate, 0.0)
	})

	t.Run("lower case symbol", func(t *testing.T) {
		resp := get(t, srv, "/api/currency/eth", "Bearer "+tok.AccessToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		rates, err := client.ListCurrencies(ctx, tok.AccessToken)
		require.NoError(t, err)
		require.Len(t, rates, 3)

		resp := get(t, srv, "/api/currency", "Bearer "+tok.AccessToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := client.GetCurrency(ctx, tok.AccessToken, "DOES_NOT_EXIST")
		require.ErrorIs(t, err, feedsdk.ErrNotFound)
	})

	t.Run("garbage bearer", func(t *testing.T) {
		resp := get(t, srv, "/api/currency/BTC", "Bearer garbage")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.True(t, strings.HasPrefix(resp.Header.Get("WWW-Authenticate"), "Bearer"))
	})

	t.Run("missing bearer", func(t *testing.T) {
		resp := get(t, srv, "/api/currency/BTC", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("introspect own token", func(t *testing.T) {
		info, err := client.Introspect(ctx, tok.AccessToken)
		require.NoError(t, err)
		require.True(t, info.Active)
		require.Equal(t, "c1", info.Sub)
		require.Equal(t, "App1", info.AppName)
		require.Equal(t, "cryptofeed", info.Iss)
	})
}

func TestRegisterErrors(t *testing.T) {
	srv := newServer(t, "")
	client := feedsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	_, err := client.Register(ctx, feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1", AppName: "App1"})
	require.NoError(t, err)

	t.Run("duplicate", func(t *testing.T) {
		_, err := client.Register(ctx, feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s2", AppName: "App2"})
		require.ErrorIs(t, err, feedsdk.ErrClientExists)

		var oerr *feedsdk.OAuth2Error
		require.ErrorAs(t, err, &oerr)
		require.Equal(t, http.StatusBadRequest, oerr.StatusCode)
		require.Equal(t, "client already exists", oerr.Description)

		// The original secret still works.
		_, err = client.RequestToken(ctx, "c1", "s1")
		require.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := client.Register(ctx, feedsdk.RegisterRequest{ClientID: "c2"})
		require.ErrorIs(t, err, feedsdk.ErrInvalidRequest)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/api/auth/register", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestTokenErrors(t *testing.T) {
	srv := newServer(t, "")
	client := feedsdk.NewSDKClient(srv.URL)
	ctx := t.Context()

	_, err := client.Register(ctx, feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := client.RequestToken(ctx, "c1", "wrong")
		require.ErrorIs(t, err, feedsdk.ErrInvalidClient)
	})

	t.Run("ghost client", func(t *testing.T) {
		_, err := client.RequestToken(ctx, "ghost", "x")
		require.ErrorIs(t, err, feedsdk.ErrInvalidClient)
	})

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"grant_type": {"client_credentials"}, "client_id": {"c1"}, "client_secret": {"s1"}}
		resp, err := srv.Client().PostForm(srv.URL+"/api/auth/token", form)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		require.Contains(t, string(body), "access_token")
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	})

	t.Run("unsupported grant", func(t *testing.T) {
		form := url.Values{"grant_type": {"password"}, "client_id": {"c1"}, "client_secret": {"s1"}}
		resp, err := srv.Client().PostForm(srv.URL+"/api/auth/token", form)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegisterAdminGate(t *testing.T) {
	srv := newServer(t, "adm")
	ctx := t.Context()
	req := feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1"}

	client := feedsdk.NewSDKClient(srv.URL)
	_, err := client.Register(ctx, req)
	require.ErrorIs(t, err, feedsdk.ErrAccessDenied)

	client.AdminSecret = "wrong"
	_, err = client.Register(ctx, req)
	require.ErrorIs(t, err, feedsdk.ErrAccessDenied)

	client.AdminSecret = "adm"
	_, err = client.Register(ctx, req)
	require.NoError(t, err)
}

func TestSystemEndpoints(t *testing.T) {
	srv := newServer(t, "")
	client := feedsdk.NewSDKClient(srv.URL)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	resp := get(t, srv, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "http_requests_total")
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestStoreOutageIsNotReportedAsInvalidToken(t *testing.T) {
	srv, st := newServerWithStore(t, "")
	client := feedsdk.NewSDKClient(srv.URL)

	_, err := client.Register(t.Context(), feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1", AppName: "App1"})
	require.NoError(t, err)
	tok, err := client.RequestToken(t.Context(), "c1", "s1")
	require.NoError(t, err)

	require.NoError(t, st.Close())

	resp := get(t, srv, "/api/currency/BTC", "Bearer "+tok.AccessToken)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Empty(t, resp.Header.Get("WWW-Authenticate"))

	t.Run("garbage is still a 401", func(t *testing.T) {
		resp := get(t, srv, "/api/currency/BTC", "Bearer garbage")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
