package service

import "errors"

var (
	ErrInvalidUserRequest = errors.New("invalid_user_request")
	ErrUserExists         = errors.New("user_exists")
	ErrUserNotFound       = errors.New("user_not_found")

	// ErrInvalidLogin covers unknown usernames, wrong passwords and
	// disabled accounts alike.
	ErrInvalidLogin = errors.New("invalid_login")

	// ErrSessionInvalid is returned for missing, unknown and expired
	// session tokens.
	ErrSessionInvalid = errors.New("session_invalid")
)
