package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenSessionSized(t *testing.T) {
	seen := make(map[string]struct{}, 50)

	for range 50 {
		tok, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Len(t, tok, 43)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err, "cookie values must be url safe")
		require.Len(t, raw, TokenSize256)

		require.NotContains(t, seen, tok)
		seen[tok] = struct{}{}
	}
}

func TestGenerateTokenRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, -1} {
		tok, err := GenerateToken(size)
		require.Error(t, err, "size %d", size)
		require.Empty(t, tok)
	}
}

func TestFingerprintTokenForSessionLookup(t *testing.T) {
	cookie, err := GenerateToken(TokenSize256)
	require.NoError(t, err)

	stored := FingerprintToken(cookie)
	require.Equal(t, stored, FingerprintToken(cookie), "lookups must find the stored row")
	require.NotEqual(t, cookie, stored, "the raw cookie is never stored")
	require.Len(t, stored, 43)

	other, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, stored, FingerprintToken(other))
}
