package sqlite_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()

	u, err := s.Users().CreateUser(t.Context(), domain.User{
		Username:     username,
		PasswordHash: "$argon2id$fake",
		Active:       true,
	})
	require.NoError(t, err)
	return u
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	alice := createUser(t, s, "alice")
	require.Positive(t, alice.ID)

	got, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)
	require.Empty(t, got.Email)
	require.Nil(t, got.LastLogin)
	require.False(t, got.HasCredentials())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "x"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Users().TouchLastLogin(ctx, 9999, time.Now())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("bind and unbind credentials", func(t *testing.T) {
		require.NoError(t, s.Users().SetCredentials(ctx, alice.ID, "app1", []byte{1, 2, 3}))

		got, err := s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "app1", got.ClientID)
		require.Equal(t, []byte{1, 2, 3}, got.SealedSecret)
		require.True(t, got.HasCredentials())

		require.NoError(t, s.Users().SetCredentials(ctx, alice.ID, "", []byte{9}))
		got, err = s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.False(t, got.HasCredentials())
	})

	t.Run("last login", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.Users().TouchLastLogin(ctx, alice.ID, at))

		got, err := s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		require.WithinDuration(t, at, *got.LastLogin, time.Second)
	})

	n, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	user := createUser(t, s, "bob")
	now := time.Now().UTC()

	live, err := s.Sessions().CreateSession(ctx, domain.Session{
		UserID: user.ID, TokenHash: "live", ExpiresAt: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Positive(t, live.ID)

	_, err = s.Sessions().CreateSession(ctx, domain.Session{
		UserID: user.ID, TokenHash: "stale", ExpiresAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	got, err := s.Sessions().GetSessionByTokenHash(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.UserID)
	require.False(t, got.Expired(now))

	deleted, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = s.Sessions().GetSessionByTokenHash(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteSessionByTokenHash(ctx, "live"))
	require.NoError(t, s.Sessions().DeleteSessionByTokenHash(ctx, "live"))

	_, err = s.Sessions().GetSessionByTokenHash(ctx, "live")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionRequiresUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().CreateSession(t.Context(), domain.Session{
		UserID: 42, TokenHash: "orphan", ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, domain.User{Username: "carol", PasswordHash: "x"})
		require.NoError(t, err)
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByUsername(ctx, "carol")
	require.ErrorIs(t, err, store.ErrNotFound)
}
