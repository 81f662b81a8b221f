package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
)

// clientAuthenticator resolves bearer tokens to the client they were issued
// to. Verification runs on every request.
type clientAuthenticator struct {
	tokens *service.TokenService
}

func (a *clientAuthenticator) Authenticate(ctx context.Context, raw string) (httpx.Principal, error) {
	c, claims, err := a.tokens.Inspect(ctx, raw)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			return httpx.Principal{}, fmt.Errorf("%w: %w", httpx.ErrAuthUnavailable, err)
		}
		return httpx.Principal{}, err
	}

	p := httpx.Principal{Subject: c.ClientID, Name: c.AppName}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
