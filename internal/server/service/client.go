package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/server/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/server/store"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

type ClientService struct {
	Store store.Store
}

// Register creates a client application with an argon2id hash of its
// secret. Uniqueness of clientID is enforced by the store; a taken id
// yields ErrDuplicateClient.
func (s *ClientService) Register(
	ctx context.Context,
	clientID, clientSecret, appName string,
) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	clientID = strings.TrimSpace(clientID)
	appName = strings.TrimSpace(appName)
	if clientID == "" || clientSecret == "" {
		return domain.Client{}, ErrInvalidClientRequest
	}

	hash, err := cryptox.HashPassword(clientSecret)
	if err != nil {
		l.Error("failed to hash client secret", "error", err)
		return domain.Client{}, err
	}

	client, err := s.Store.Clients().CreateClient(ctx, domain.Client{
		ClientID:   clientID,
		SecretHash: hash,
		AppName:    appName,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("client registration rejected, id taken", "client_id", clientID)
			return domain.Client{}, ErrDuplicateClient
		}
		l.Error("failed to create client", "error", err, "client_id", clientID)
		return domain.Client{}, err
	}

	clientsRegistered.Inc()
	l.Info("client registered", "client_id", clientID, "app_name", appName)
	return client, nil
}

// FindByID returns the client registered under clientID.
func (s *ClientService) FindByID(ctx context.Context, clientID string) (domain.Client, error) {
	c, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return c, nil
}
