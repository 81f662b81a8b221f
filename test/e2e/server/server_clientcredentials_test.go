//go:build e2e

package server_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/stretchr/testify/require"
)

// TestClientCredentialsFlow walks the register, token, read sequence a
// client application goes through.
func TestClientCredentialsFlow(t *testing.T) {
	baseURL, cleanup := setupServerContainer(t, nil)
	defer cleanup()

	client := newAdminClient(baseURL)
	creds := feedsdk.Credentials{ClientID: "app1", ClientSecret: "s3cret", AppName: "App One"}
	registerClient(t, client, creds)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := client.Register(t.Context(), feedsdk.RegisterRequest{
			ClientID: creds.ClientID, ClientSecret: "other", AppName: "Other",
		})
		require.ErrorIs(t, err, feedsdk.ErrClientExists)
	})

	t.Run("registration requires admin secret", func(t *testing.T) {
		_, err := feedsdk.NewSDKClient(baseURL).Register(t.Context(), feedsdk.RegisterRequest{
			ClientID: "app2", ClientSecret: "x", AppName: "App Two",
		})
		require.ErrorIs(t, err, feedsdk.ErrAccessDenied)
	})

	t.Run("token and currencies", func(t *testing.T) {
		token, err := client.RequestToken(t.Context(), creds.ClientID, creds.ClientSecret)
		require.NoError(t, err)
		require.Equal(t, "bearer", token.TokenType)
		require.Equal(t, 7200, token.ExpiresIn)

		btc, err := client.GetCurrency(t.Context(), token.AccessToken, "btc")
		require.NoError(t, err)
		require.Equal(t, "BTC", btc.Symbol)
		require.Positive(t, btc.Rate)

		rates, err := client.ListCurrencies(t.Context(), token.AccessToken)
		require.NoError(t, err)
		require.Len(t, rates, 3)

		_, err = client.GetCurrency(t.Context(), token.AccessToken, "DOES_NOT_EXIST")
		require.ErrorIs(t, err, feedsdk.ErrNotFound)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := client.RequestToken(t.Context(), creds.ClientID, "wrong")
		require.ErrorIs(t, err, feedsdk.ErrInvalidClient)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := client.ListCurrencies(t.Context(), "not-a-jwt")
		require.ErrorIs(t, err, feedsdk.ErrInvalidToken)
	})

	t.Run("rates move over time", func(t *testing.T) {
		session := client.NewSession(creds)

		first, err := session.GetCurrency(t.Context(), "ETH")
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			next, err := session.GetCurrency(t.Context(), "ETH")
			return err == nil && next.LastUpdated.After(first.LastUpdated)
		}, 10*time.Second, 500*time.Millisecond)

		require.Equal(t, uint64(1), session.Status().Issued)
	})
}

// TestSessionReconfigure checks that reconfiguring a session
// to another client switches the token subject.
func TestSessionReconfigure(t *testing.T) {
	baseURL, cleanup := setupServerContainer(t, nil)
	defer cleanup()

	client := newAdminClient(baseURL)
	a := feedsdk.Credentials{ClientID: "alpha", ClientSecret: "alpha-secret", AppName: "Alpha"}
	b := feedsdk.Credentials{ClientID: "beta", ClientSecret: "beta-secret", AppName: "Beta"}
	registerClient(t, client, a)
	registerClient(t, client, b)

	session := client.NewSession(a)
	token, err := session.EnsureAuthenticated(t.Context())
	require.NoError(t, err)

	info, err := client.Introspect(t.Context(), token)
	require.NoError(t, err)
	require.True(t, info.Active)
	require.Equal(t, "alpha", info.Sub)

	session.Configure(b)
	require.False(t, session.IsValid())

	token, err = session.EnsureAuthenticated(t.Context())
	require.NoError(t, err)

	info, err = client.Introspect(t.Context(), token)
	require.NoError(t, err)
	require.Equal(t, "beta", info.Sub)
}
