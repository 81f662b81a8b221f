package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
)

type clientsRepo struct {
	q querier
}

func (r *clientsRepo) GetClientByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	var c domain.Client
	err := r.q.QueryRowContext(ctx, `
		SELECT id, client_id, secret_hash, app_name, is_active, created_at
		FROM clients
		WHERE client_id = ?`, clientID,
	).Scan(&c.ID, &c.ClientID, &c.SecretHash, &c.AppName, &c.Active, &c.CreatedAt)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

// CreateClient relies on the UNIQUE(client_id) constraint for duplicate
// detection; there is no read before the write.
func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (client_id, secret_hash, app_name, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ClientID, c.SecretHash, c.AppName, c.Active, c.CreatedAt,
	)
	if err != nil {
		return domain.Client{}, mapConstraint(err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (r *clientsRepo) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}
