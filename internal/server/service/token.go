package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/jwtx"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// TokenService issues and verifies client credentials access tokens. It is
// stateless: nothing about issued tokens is stored.
type TokenService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier
	Issuer    string
	AccessTTL time.Duration

	// Now is the clock used for issuance. Defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) ttl() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnVerify runs one argon2 verification against a throwaway hash so an
// unknown client_id costs as much as a wrong secret.
func burnVerify(secret string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = cryptox.HashPassword("not-a-real-client-secret")
	})
	if dummyHash != "" {
		_ = cryptox.VerifyPassword(secret, dummyHash)
	}
}

// ExchangeClientCredentials implements the OAuth2 client_credentials grant.
// Unknown, inactive and wrong-secret clients all yield ErrInvalidCredentials.
func (s *TokenService) ExchangeClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
) (*domain.AccessToken, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	c, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			burnVerify(clientSecret)
			l.Info("token request for unknown client", "client_id", clientID)
			tokensIssued.WithLabelValues("invalid_client").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(clientSecret, c.SecretHash); err != nil {
		l.Info("client secret verification failed", "client_id", clientID)
		tokensIssued.WithLabelValues("invalid_client").Inc()
		return nil, ErrInvalidCredentials
	}

	if !c.Active {
		l.Warn("token request for inactive client", "client_id", clientID)
		tokensIssued.WithLabelValues("inactive").Inc()
		return nil, ErrInvalidCredentials
	}

	ttl := s.ttl()
	claims := jwtx.NewAccessClaims(
		c.ClientID, // subject = client_id
		ttl,
		s.Issuer,
		nil,
		c.AppName,
		now,
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return nil, err
	}

	tokensIssued.WithLabelValues("issued").Inc()
	l.Info("access token issued", "client_id", c.ClientID, "jti", claims.ID)

	return &domain.AccessToken{
		Token:     token,
		TokenType: domain.TokenTypeBearer,
		Subject:   c.ClientID,
		ExpiresAt: claims.ExpiresAt.Time,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// Verify checks a bearer token and returns the client it was issued to.
// A token that fails any check yields ErrInvalidToken; other errors mean
// the check could not be completed.
func (s *TokenService) Verify(ctx context.Context, raw string) (domain.Client, error) {
	c, _, err := s.Inspect(ctx, raw)
	return c, err
}

// Inspect is Verify that also returns the parsed claims, for introspection.
func (s *TokenService) Inspect(ctx context.Context, raw string) (domain.Client, jwtx.Claims, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		l.Debug("access token rejected", "reason", err)
		tokenVerifications.WithLabelValues(verifyReason(err)).Inc()
		return domain.Client{}, jwtx.Claims{}, ErrInvalidToken
	}

	c, err := s.Store.Clients().GetClientByClientID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("access token for unknown client", "client_id", claims.Subject)
			tokenVerifications.WithLabelValues("unknown_client").Inc()
			return domain.Client{}, jwtx.Claims{}, ErrInvalidToken
		}
		l.Error("failed to look up token subject", "client_id", claims.Subject, "error", err)
		tokenVerifications.WithLabelValues("error").Inc()
		return domain.Client{}, jwtx.Claims{}, fmt.Errorf("look up token subject: %w", err)
	}

	if !c.Active {
		l.Info("access token for inactive client", "client_id", c.ClientID)
		tokenVerifications.WithLabelValues("inactive").Inc()
		return domain.Client{}, jwtx.Claims{}, ErrInvalidToken
	}

	tokenVerifications.WithLabelValues("ok").Inc()
	return c, claims, nil
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return "expired"
	case errors.Is(err, jwtx.ErrInvalidSig), errors.Is(err, jwtx.ErrAlgMismatch):
		return "signature"
	case errors.Is(err, jwtx.ErrMalformed):
		return "malformed"
	default:
		return "claims"
	}
}
