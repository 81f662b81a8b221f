package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, username, password_hash, email, is_active, is_admin, client_id, client_secret, created_at, last_login`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		email     sql.NullString
		clientID  sql.NullString
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &u.Active, &u.Admin,
		&clientID, &u.SealedSecret, &u.CreatedAt, &lastLogin)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Email = email.String
	u.ClientID = clientID.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, email, is_active, is_admin, client_id, client_secret, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.PasswordHash, nullString(u.Email), u.Active, u.Admin,
		nullString(u.ClientID), u.SealedSecret, u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	u.ID, err = res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) SetCredentials(ctx context.Context, userID int64, clientID string, sealedSecret []byte) error {
	if clientID == "" {
		sealedSecret = nil
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET client_id = ?, client_secret = ? WHERE id = ?`,
		nullString(clientID), sealedSecret, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// requireRow turns an UPDATE that matched nothing into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
