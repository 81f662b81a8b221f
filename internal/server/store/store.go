package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it
// and expose sub-repositories so a Tx-scoped store can hand out the same
// repositories bound to the transaction.
type Store interface {
	Clients() Clients
	Currencies() Currencies

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// GetClientByClientID fetches a client by its public client_id.
	GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error)

	// CreateClient inserts a client and returns it with ID and CreatedAt
	// filled in. A taken client_id yields ErrAlreadyExists.
	CreateClient(ctx context.Context, c domain.Client) (domain.Client, error)

	// CountClients is used by metrics and readiness.
	CountClients(ctx context.Context) (int64, error)
}

type Currencies interface {
	// ListRates returns every rate ordered by symbol.
	ListRates(ctx context.Context) ([]domain.CurrencyRate, error)

	// GetRate returns the rate for an upper case symbol.
	GetRate(ctx context.Context, symbol string) (domain.CurrencyRate, error)

	// UpsertRate inserts a new symbol or overwrites the existing row.
	UpsertRate(ctx context.Context, r domain.CurrencyRate) error

	// IsEmpty returns true if no symbols are stored yet.
	IsEmpty(ctx context.Context) (bool, error)
}
