//go:build e2e

package server_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/stretchr/testify/require"
)

func TestTokenEndpointRateLimit(t *testing.T) {
	baseURL, cleanup := setupServerContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS": "3",
		"RATELIMIT_STRICT_BURST":    "3",
	})
	defer cleanup()

	client := feedsdk.NewSDKClient(baseURL)

	var limited *feedsdk.OAuth2Error
	for range 10 {
		_, err := client.RequestToken(t.Context(), "nobody", "nothing")
		require.Error(t, err)

		var oauthErr *feedsdk.OAuth2Error
		if errors.As(err, &oauthErr) && oauthErr.StatusCode == http.StatusTooManyRequests {
			limited = oauthErr
			break
		}
		require.ErrorIs(t, err, feedsdk.ErrInvalidClient)
	}

	require.NotNil(t, limited, "token endpoint was never rate limited")
	require.Equal(t, feedsdk.ErrorCodeRateLimited, limited.Code)
}
