package service

import "errors"

var (
	ErrInvalidClientRequest = errors.New("invalid_request")
	ErrDuplicateClient      = errors.New("client_exists")
	ErrClientNotFound       = errors.New("client not found")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrInvalidToken         = errors.New("invalid_token")
	ErrCurrencyNotFound     = errors.New("currency not found")
)
