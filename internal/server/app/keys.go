package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/jwtx"
)

// ErrNoSigningSecret is returned outside dev when no secret is configured.
var ErrNoSigningSecret = errors.New("no JWT signing secret configured: set FEED_JWT_SECRET or FEED_JWT_SECRET_FILE")

// LoadSigningSecret resolves the process-wide HS256 secret. FEED_JWT_SECRET
// wins over FEED_JWT_SECRET_FILE. In dev, a missing secret is replaced by a
// random one that lives only as long as the process.
func LoadSigningSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}

	if cfg.JWTSecretFile != "" {
		raw, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read JWT secret file: %w", err)
		}
		secret := strings.TrimSpace(string(raw))
		if secret == "" {
			return nil, fmt.Errorf("JWT secret file %s is empty", cfg.JWTSecretFile)
		}
		return []byte(secret), nil
	}

	if cfg.Env != "dev" {
		return nil, ErrNoSigningSecret
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	logger.Warn("no JWT secret configured, using an ephemeral one; tokens will not survive a restart")
	return []byte(secret), nil
}

// InitTokenKeys builds the signer and verifier pair sharing one secret.
func InitTokenKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	secret, err := LoadSigningSecret(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	signer, err := jwtx.NewSignerHS256("", secret)
	if err != nil {
		return nil, nil, err
	}

	verifier := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{Issuer: cfg.Issuer})
	return signer, verifier, nil
}
