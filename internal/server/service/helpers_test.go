package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store/drivers/sqlite"
	"github.com/aussiebroadwan/cryptofeed/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-test-secret-test-secret!")

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// newTokenService wires a TokenService whose issuer and verifier share now.
func newTokenService(t *testing.T, s *sqlite.Store, ttl time.Duration, now func() time.Time) *service.TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256("", testSecret)
	require.NoError(t, err)

	return &service.TokenService{
		Store:     s,
		Signer:    signer,
		Verifier:  jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: "cryptofeed", Now: now}),
		Issuer:    "cryptofeed",
		AccessTTL: ttl,
		Now:       now,
	}
}
