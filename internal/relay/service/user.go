package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/store"
	"github.com/aussiebroadwan/cryptofeed/pkg/cryptox"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
	"github.com/aussiebroadwan/cryptofeed/pkg/slogx"
)

// DefaultSessionTTL matches the session cookie Max-Age.
const DefaultSessionTTL = 24 * time.Hour

// NewUser is the input to CreateUser. ClientID and ClientSecret are
// optional but must be given together.
type NewUser struct {
	Username     string
	Password     string
	Email        string
	ClientID     string
	ClientSecret string
	Admin        bool
}

type UserService struct {
	Store      store.Store
	SessionTTL time.Duration
	Now        func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UserService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnVerify spends one argon2 verification so unknown usernames take as
// long to reject as wrong passwords.
func burnVerify(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = cryptox.HashPassword("not-a-real-user-password")
	})
	if dummyHash != "" {
		_ = cryptox.VerifyPassword(password, dummyHash)
	}
}

// CreateUser hashes the password, seals any bound client secret and stores
// the user. A taken username yields ErrUserExists.
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return domain.User{}, ErrInvalidUserRequest
	}
	if (in.ClientID == "") != (in.ClientSecret == "") {
		return domain.User{}, fmt.Errorf("%w: client_id and client_secret go together", ErrInvalidUserRequest)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		Active:       true,
		Admin:        in.Admin,
		ClientID:     in.ClientID,
	}
	if in.ClientSecret != "" {
		if u.SealedSecret, err = cryptox.EncryptSecret([]byte(in.ClientSecret)); err != nil {
			return domain.User{}, fmt.Errorf("seal client secret: %w", err)
		}
	}

	created, err := s.Store.Users().CreateUser(ctx, u)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUserExists
	}
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user created", "user_id", created.ID, "username", created.Username, "admin", created.Admin)
	return created, nil
}

// Login checks the password and opens a session. The returned token is the
// only copy; the store keeps its fingerprint.
func (s *UserService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		burnVerify(password)
		userLogins.WithLabelValues("unknown_user").Inc()
		return "", domain.User{}, ErrInvalidLogin
	}
	if err != nil {
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		userLogins.WithLabelValues("bad_password").Inc()
		return "", domain.User{}, ErrInvalidLogin
	}
	if !u.Active {
		userLogins.WithLabelValues("inactive").Inc()
		return "", domain.User{}, ErrInvalidLogin
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.User{}, err
	}

	now := s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Sessions().CreateSession(ctx, domain.Session{
			UserID:    u.ID,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(s.ttl()),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Users().TouchLastLogin(ctx, u.ID, now)
	})
	if err != nil {
		return "", domain.User{}, err
	}

	u.LastLogin = &now
	userLogins.WithLabelValues("ok").Inc()
	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	return token, u, nil
}

// VerifySession resolves a session token to its active user. An expired
// session is deleted on sight.
func (s *UserService) VerifySession(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrSessionInvalid
	}

	hash := cryptox.FingerprintToken(token)
	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.User{}, err
	}

	if sess.Expired(s.now()) {
		_ = s.Store.Sessions().DeleteSessionByTokenHash(ctx, hash)
		return domain.User{}, ErrSessionInvalid
	}

	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.User{}, err
	}
	if !u.Active {
		return domain.User{}, ErrSessionInvalid
	}

	return u, nil
}

// Logout deletes the session. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
}

// BindCredentials stores a client identity for the user, sealed at rest.
// An empty clientID removes the binding.
func (s *UserService) BindCredentials(ctx context.Context, userID int64, clientID, clientSecret string) error {
	if (clientID == "") != (clientSecret == "") {
		return ErrInvalidUserRequest
	}

	var sealed []byte
	if clientSecret != "" {
		var err error
		if sealed, err = cryptox.EncryptSecret([]byte(clientSecret)); err != nil {
			return fmt.Errorf("seal client secret: %w", err)
		}
	}

	err := s.Store.Users().SetCredentials(ctx, userID, clientID, sealed)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Credentials opens the user's bound client identity. ok is false when the
// user has none.
func (s *UserService) Credentials(u domain.User) (creds feedsdk.Credentials, ok bool, err error) {
	if !u.HasCredentials() {
		return feedsdk.Credentials{}, false, nil
	}

	secret, err := cryptox.DecryptSecret(u.SealedSecret)
	if err != nil {
		return feedsdk.Credentials{}, false, fmt.Errorf("open client secret: %w", err)
	}

	return feedsdk.Credentials{
		ClientID:     u.ClientID,
		ClientSecret: string(secret),
		AppName:      u.Username,
	}, true, nil
}

// CleanupExpired removes every expired session.
func (s *UserService) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	sessionsPurged.Add(float64(n))
	return n, nil
}

// CountUsers is used by readiness reporting.
func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.Store.Users().CountUsers(ctx)
}
