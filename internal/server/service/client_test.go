package service_test

import (
	"testing"

	"github.com/aussiebroadwan/cryptofeed/internal/server/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestClientServiceRegister(t *testing.T) {
	svc := &service.ClientService{Store: newStore(t)}
	ctx := t.Context()

	c, err := svc.Register(ctx, "c1", "s1", "App1")
	require.NoError(t, err)
	require.Positive(t, c.ID)
	require.Equal(t, "c1", c.ClientID)
	require.True(t, c.Active)
	require.NotEqual(t, "s1", c.SecretHash)
	require.NoError(t, cryptox.VerifyPassword("s1", c.SecretHash))

	t.Run("duplicate is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "c1", "s2", "App2")
		require.ErrorIs(t, err, service.ErrDuplicateClient)

		// The original record is untouched.
		got, err := svc.FindByID(ctx, "c1")
		require.NoError(t, err)
		require.Equal(t, "App1", got.AppName)
		require.NoError(t, cryptox.VerifyPassword("s1", got.SecretHash))
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, tc := range [][2]string{{"", "s"}, {"c", ""}, {"   ", "s"}} {
			_, err := svc.Register(ctx, tc[0], tc[1], "x")
			require.ErrorIs(t, err, service.ErrInvalidClientRequest)
		}
	})

	t.Run("find unknown", func(t *testing.T) {
		_, err := svc.FindByID(ctx, "ghost")
		require.ErrorIs(t, err, service.ErrClientNotFound)
	})
}

func TestClientServiceRegisterConcurrentDuplicates(t *testing.T) {
	svc := &service.ClientService{Store: newStore(t)}

	const n = 8
	errs := make(chan error, n)
	for range n {
		go func() {
			_, err := svc.Register(t.Context(), "same", "secret", "App")
			errs <- err
		}()
	}

	var ok, dup int
	for range n {
		err := <-errs
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, service.ErrDuplicateClient)
			dup++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, dup)
}
