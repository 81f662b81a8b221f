package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the relay's data access root.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u and returns it with ID and CreatedAt set. A taken
	// username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// SetCredentials binds (or with an empty clientID, unbinds) a client
	// identity to the user.
	SetCredentials(ctx context.Context, userID int64, clientID string, sealedSecret []byte) error

	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	CountUsers(ctx context.Context) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) (domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions removes every session that expired before now
	// and returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
