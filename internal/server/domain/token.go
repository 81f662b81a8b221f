package domain

import "time"

// TokenTypeBearer is the only token type the server issues.
const TokenTypeBearer = "bearer"

// AccessToken is what the token endpoint returns. It is never stored.
type AccessToken struct {
	Token     string
	TokenType string
	Subject   string
	ExpiresAt time.Time
	ExpiresIn int // seconds
}
