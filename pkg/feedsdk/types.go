package feedsdk

import "time"

// ErrorResponse is the JSON shape of every error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// RegisterRequest registers a new client application.
type RegisterRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AppName      string `json:"app_name"`
}

// RegisterResponse carries the server-assigned numeric id.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	ClientID string `json:"client_id"`
	AppName  string `json:"app_name"`
	Message  string `json:"message,omitempty"`
}

// TokenRequest is the client credentials exchange body.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse is the token endpoint response per RFC 6749 section 5.1.
type TokenResponse struct {
	// AccessToken is the signed JWT
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in,omitempty"`
}

// IntrospectionResponse follows RFC 7662. Only Active is set for inactive tokens.
type IntrospectionResponse struct {
	Active    bool   `json:"active"`
	Sub       string `json:"sub,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	AppName   string `json:"app_name,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	Iss       string `json:"iss,omitempty"`
	Jti       string `json:"jti,omitempty"`
}

// CurrencyRate is one protected market data record.
type CurrencyRate struct {
	Symbol      string    `json:"symbol"`
	Rate        float64   `json:"rate"`
	Change24h   float64   `json:"change_24h"`
	LastUpdated time.Time `json:"last_updated"`
}

// HealthResponse is returned by liveness and readiness probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}
