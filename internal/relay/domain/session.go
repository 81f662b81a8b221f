package domain

import "time"

// Session is a logged in browser session. Only the fingerprint of the
// opaque token is stored; the token itself lives in the cookie.
type Session struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
