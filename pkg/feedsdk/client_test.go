package feedsdk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) *feedsdk.SDKClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return feedsdk.NewSDKClient(srv.URL)
}

func TestRegister(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		client := serve(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/register", r.URL.Path)
			require.Empty(t, r.Header.Get(httpx.SharedSecretHeader))

			var req feedsdk.RegisterRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			httpx.WriteJSON(w, http.StatusCreated, feedsdk.RegisterResponse{
				ID: 7, ClientID: req.ClientID, AppName: req.AppName, Message: "client registered",
			})
		})

		out, err := client.Register(t.Context(), feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1", AppName: "App1"})
		require.NoError(t, err)
		require.EqualValues(t, 7, out.ID)
		require.Equal(t, "App1", out.AppName)
	})

	t.Run("admin secret header", func(t *testing.T) {
		client := serve(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "adm", r.Header.Get(httpx.SharedSecretHeader))
			httpx.WriteJSON(w, http.StatusCreated, feedsdk.RegisterResponse{ID: 1})
		})
		client.AdminSecret = "adm"

		_, err := client.Register(t.Context(), feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1"})
		require.NoError(t, err)
	})

	t.Run("duplicate", func(t *testing.T) {
		client := serve(t, func(w http.ResponseWriter, r *http.Request) {
			feedsdk.ErrClientExists.WriteError(w)
		})

		_, err := client.Register(t.Context(), feedsdk.RegisterRequest{ClientID: "c1", ClientSecret: "s1"})
		require.ErrorIs(t, err, feedsdk.ErrClientExists)
		require.NotErrorIs(t, err, feedsdk.ErrInvalidRequest)
	})
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *feedsdk.OAuth2Error
		desc   string
	}{
		{"oauth2 body", http.StatusUnauthorized, `{"error":"invalid_client","error_description":"nope"}`, feedsdk.ErrInvalidClient, "nope"},
		{"detail body", http.StatusNotFound, `{"detail":"Currency not found"}`, feedsdk.ErrNotFound, "Currency not found"},
		{"plain text 401", http.StatusUnauthorized, "unauthorized", feedsdk.ErrInvalidToken, "HTTP 401: Unauthorized"},
		{"empty 500", http.StatusInternalServerError, "", feedsdk.ErrServerError, "HTTP 500: Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.GetCurrency(t.Context(), "tok", "BTC")
			require.ErrorIs(t, err, tt.want)
			require.False(t, feedsdk.IsTransport(err))

			var oerr *feedsdk.OAuth2Error
			require.ErrorAs(t, err, &oerr)
			require.Equal(t, tt.status, oerr.StatusCode)
			require.Equal(t, tt.desc, oerr.Description)
		})
	}
}

func TestGetCurrencyNormalisesSymbol(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/currency/ETH", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		httpx.WriteJSON(w, http.StatusOK, feedsdk.CurrencyRate{Symbol: "ETH", Rate: 3200})
	})

	rate, err := client.GetCurrency(t.Context(), "tok", "eth")
	require.NoError(t, err)
	require.Equal(t, "ETH", rate.Symbol)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := feedsdk.NewSDKClient(srv.URL).RequestToken(t.Context(), "c1", "s1")
	require.Error(t, err)
	require.True(t, feedsdk.IsTransport(err))

	var te *feedsdk.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.MethodPost, te.Method)
	require.Contains(t, te.URL, "/api/auth/token")
}
