package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// MasterKeyEnv is consulted when no master key file has been configured.
const MasterKeyEnv = "FEED_MASTER_KEY"

var (
	masterKeyMu   sync.Mutex
	masterKey     []byte
	masterKeyPath string
)

// ErrCiphertextTooShort is returned when the input cannot even hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// SetMasterKeyPath configures where to load the master encryption key from.
// Call it before the first EncryptSecret/DecryptSecret.
func SetMasterKeyPath(path string) {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()

	masterKeyPath = path
	masterKey = nil
}

// loadMasterKey derives a 32-byte AES-256 key from, in order: the configured
// key file, the FEED_MASTER_KEY environment variable, or a random key that
// only lives as long as the process.
func loadMasterKey() ([]byte, error) {
	var material []byte

	switch env := os.Getenv(MasterKeyEnv); {
	case masterKeyPath != "":
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		material = data
	case env != "":
		material = []byte(env)
	default:
		slog.Warn("no master key configured, using an ephemeral key; stored secrets will not survive a restart")
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
	}

	sum := sha256.Sum256(material)
	return sum[:], nil
}

func newGCM() (cipher.AEAD, error) {
	masterKeyMu.Lock()
	if masterKey == nil {
		key, err := loadMasterKey()
		if err != nil {
			masterKeyMu.Unlock()
			return nil, err
		}
		masterKey = key
	}
	key := masterKey
	masterKeyMu.Unlock()

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// EncryptSecret seals a secret that must be recoverable later (for example
// a client secret the relay presents upstream) with AES-256-GCM.
// Output layout: [12-byte nonce][ciphertext][16-byte tag].
func EncryptSecret(plaintext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptSecret opens data produced by EncryptSecret.
func DecryptSecret(sealed []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ResetMasterKeyForTesting drops the cached master key so the next call
// reloads it. Tests only.
func ResetMasterKeyForTesting() {
	SetMasterKeyPath("")
}
