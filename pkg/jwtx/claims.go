package jwtx

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/cryptofeed/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is how long a client credentials token lives unless
// the service is configured otherwise.
const DefaultAccessTokenTTL = 120 * time.Minute

// Claims are the access-token claims issued to client applications. The
// subject is always the client_id the token was issued to.
type Claims struct {
	jwt.RegisteredClaims

	// AppName is the display label of the client application. Informational
	// only, verifiers must resolve the subject against the client registry.
	AppName string `json:"app_name,omitempty"`
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(
	subject string,
	ttl time.Duration,
	issuer string,
	audience []string,
	appName string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		AppName: appName,
	}
}

// NewJTI returns a unique identifier for the "jti" claim.
func NewJTI() string {
	return idx.New().String()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateSubject ensures the token names who it was issued to.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}

// ValidateExpiry checks exp and nbf against the current time.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC(), 0)
}

// ValidateExpiryAt checks exp and nbf against now, allowing leeway for clock
// skew. A token is expired once now reaches exp.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrExpired
	}

	if !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
