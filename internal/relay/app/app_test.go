package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CLIENT_ID", "relay")
	t.Setenv("CLIENT_SECRET", "relay-secret")
	t.Setenv("TOKEN_BUFFER", "30s")

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8000", cfg.ServerURL)
	require.Equal(t, 8001, cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30*time.Second, cfg.TokenBuffer)
	require.Equal(t, "relay", cfg.Credentials().ClientID)
	require.Equal(t, "relay-secret", cfg.Credentials().ClientSecret)
}

func TestRelayAdminSecretFallsBackToUpstream(t *testing.T) {
	t.Setenv("ADMIN_SECRET", "feed-admin")
	t.Setenv("RELAY_ADMIN_SECRET", "")
	require.Equal(t, "feed-admin", LoadConfig().RelayAdminSecret)

	t.Setenv("RELAY_ADMIN_SECRET", "relay-admin")
	require.Equal(t, "relay-admin", LoadConfig().RelayAdminSecret)
}

func TestNewServesHealth(t *testing.T) {
	dir := t.TempDir()
	app, err := New(Config{
		ServerURL:           "http://127.0.0.1:1",
		UpstreamTimeout:     time.Second,
		DatabaseFile:        ":memory:",
		PepperFile:          filepath.Join(dir, "pepper"),
		SessionTTL:          time.Hour,
		LogLevel:            "error",
		ShutdownGracePeriod: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":false`)
}
