package feedsdk

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/cryptofeed/pkg/httpx"
)

// RequestToken exchanges client credentials for an access token. A rejected
// pair yields an error matching ErrInvalidClient.
func (c *SDKClient) RequestToken(ctx context.Context, clientID, clientSecret string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/token", TokenRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, "", nil)
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}

	return &token, nil
}

// Register creates a client application. A taken client_id yields an error
// matching ErrClientExists.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var headers map[string]string
	if c.AdminSecret != "" {
		headers = map[string]string{httpx.SharedSecretHeader: c.AdminSecret}
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, "", headers)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}

	return &out, nil
}

// Introspect asks the server what it knows about token (RFC 7662).
func (c *SDKClient) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/introspect", nil, token, nil)
	if err != nil {
		return nil, err
	}

	var out IntrospectionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
