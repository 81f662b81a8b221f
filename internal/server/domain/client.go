package domain

import "time"

// Client is a registered machine client. ClientID is the public identifier
// and never changes; ID is the row id assigned by the store.
type Client struct {
	ID         int64
	ClientID   string
	SecretHash string
	AppName    string
	Active     bool
	CreatedAt  time.Time
}
