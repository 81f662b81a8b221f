//go:build e2e

package server_test

import (
	"testing"

	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupServerContainer(t, nil)
	defer cleanup()

	client := feedsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
}
