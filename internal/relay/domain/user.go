package domain

import "time"

// User is a human account on the relay. A user may carry a bound client
// identity; its secret is stored sealed and only opened when a tenant for
// the user is built.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2 encoded
	Email        string
	Active       bool
	Admin        bool

	ClientID     string
	SealedSecret []byte // cryptox.EncryptSecret output, nil when unbound

	CreatedAt time.Time
	LastLogin *time.Time
}

// HasCredentials reports whether a client identity is bound to the user.
func (u User) HasCredentials() bool {
	return u.ClientID != "" && len(u.SealedSecret) > 0
}
