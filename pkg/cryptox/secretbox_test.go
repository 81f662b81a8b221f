package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func withMasterKey(t *testing.T, key string) {
	t.Setenv(cryptox.MasterKeyEnv, key)
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(cryptox.ResetMasterKeyForTesting)
}

func TestEncryptDecryptSecret(t *testing.T) {
	withMasterKey(t, "test-master-key-for-encryption-12345")

	secret := []byte("client-secret-s1")

	sealed, err := cryptox.EncryptSecret(secret)
	require.NoError(t, err)
	require.NotEqual(t, secret, sealed)

	opened, err := cryptox.DecryptSecret(sealed)
	require.NoError(t, err)
	require.Equal(t, secret, opened)
}

func TestEncryptSecretUsesFreshNonce(t *testing.T) {
	withMasterKey(t, "test-master-key-multiple-times-xyz")

	secret := []byte("same-secret")

	a, err := cryptox.EncryptSecret(secret)
	require.NoError(t, err)
	b, err := cryptox.EncryptSecret(secret)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "ciphertexts should differ due to random nonce")

	for _, sealed := range [][]byte{a, b} {
		opened, err := cryptox.DecryptSecret(sealed)
		require.NoError(t, err)
		require.Equal(t, secret, opened)
	}
}

func TestDecryptSecretRejectsBadInput(t *testing.T) {
	withMasterKey(t, "test-master-key-invalid-data")

	t.Run("too short", func(t *testing.T) {
		_, err := cryptox.DecryptSecret([]byte("short"))
		require.ErrorIs(t, err, cryptox.ErrCiphertextTooShort)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := cryptox.DecryptSecret([]byte("invalid-encrypted-data"))
		require.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		sealed, err := cryptox.EncryptSecret([]byte("original"))
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xFF

		_, err = cryptox.DecryptSecret(sealed)
		require.Error(t, err)
	})
}

func TestDecryptSecretWithDifferentKeyFails(t *testing.T) {
	withMasterKey(t, "first-key")
	sealed, err := cryptox.EncryptSecret([]byte("payload"))
	require.NoError(t, err)

	withMasterKey(t, "second-key")
	_, err = cryptox.DecryptSecret(sealed)
	require.Error(t, err)
}

func TestMasterKeyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("file-based-master-key-content-xyz"), 0600))

	cryptox.SetMasterKeyPath(path)
	t.Cleanup(cryptox.ResetMasterKeyForTesting)

	sealed, err := cryptox.EncryptSecret([]byte("test-data-with-file-key"))
	require.NoError(t, err)

	opened, err := cryptox.DecryptSecret(sealed)
	require.NoError(t, err)
	require.Equal(t, []byte("test-data-with-file-key"), opened)
}
