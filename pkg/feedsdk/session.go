package feedsdk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultBuffer is subtracted from a token's expiry so it is treated as
	// used up slightly early, covering clock skew and in-flight latency.
	DefaultBuffer = time.Minute

	// DefaultTokenTTL is assumed when the server states no expiry at all.
	DefaultTokenTTL = 120 * time.Minute
)

// Credentials identify a client application to the feed server.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AppName      string
}

// CachedToken is the most recently acquired access token. ExpiresAt is the
// expiry the server declared; Buffer is subtracted when judging validity.
type CachedToken struct {
	AccessToken string
	ExpiresAt   time.Time
	Buffer      time.Duration
}

// Valid reports whether the token is present and now is before its
// buffered expiry.
func (t CachedToken) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.RefreshAt())
}

// RefreshAt is the instant the token stops being presented.
func (t CachedToken) RefreshAt() time.Time {
	return t.ExpiresAt.Add(-t.Buffer)
}

// newCachedToken reads the expiry from the token's own exp claim, then
// falls back to expires_in and finally to DefaultTokenTTL. The signature
// is not checked here; only the server can do that.
func newCachedToken(resp *TokenResponse, now time.Time, buffer time.Duration) CachedToken {
	tok := CachedToken{AccessToken: resp.AccessToken, Buffer: buffer}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		tok.ExpiresAt = claims.ExpiresAt.Time
		return tok
	}

	if resp.ExpiresIn > 0 {
		tok.ExpiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
		return tok
	}

	tok.ExpiresAt = now.Add(DefaultTokenTTL)
	return tok
}

// SessionStatus is a secret-free snapshot of a Session.
type SessionStatus struct {
	ClientID      string     `json:"client_id"`
	AppName       string     `json:"app_name"`
	Configured    bool       `json:"configured"`
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"token_expires_at,omitempty"`
	RefreshAt     *time.Time `json:"token_refresh_at,omitempty"`
	Issued        uint64     `json:"tokens_issued"`
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithBuffer overrides DefaultBuffer.
func WithBuffer(d time.Duration) SessionOption {
	return func(s *Session) { s.buffer = d }
}

// WithClock overrides the clock used for validity checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Session holds one client identity and its cached token. It is safe for
// concurrent use: reads take a shared lock, and at most one token request
// is in flight at a time. Callers waiting for that request give up when
// their context ends.
type Session struct {
	client *SDKClient
	buffer time.Duration
	now    func() time.Time

	// refresh is a one-slot semaphore serialising token acquisition.
	refresh chan struct{}

	mu         sync.RWMutex
	creds      Credentials
	token      CachedToken
	generation uint64
	issued     uint64
}

// NewSession creates a Session for creds. No request is made until a token
// is needed.
func (c *SDKClient) NewSession(creds Credentials, opts ...SessionOption) *Session {
	s := &Session{
		client:  c,
		buffer:  DefaultBuffer,
		now:     time.Now,
		creds:   creds,
		refresh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the SDK client the session sends requests through.
func (s *Session) Client() *SDKClient { return s.client }

// IsValid reports whether a cached token exists and is inside its buffered
// validity window.
func (s *Session) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.Valid(s.now())
}

// Credentials returns the identity currently configured.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// EnsureAuthenticated returns a usable access token, requesting a new one
// only when the cached token is absent or stale. Concurrent callers share a
// single request. Failures are returned as-is; nothing is retried.
func (s *Session) EnsureAuthenticated(ctx context.Context) (string, error) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()

	if tok.Valid(s.now()) {
		return tok.AccessToken, nil
	}

	tok, err := s.acquire(ctx, false)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Login requests a fresh token even if the cached one is still valid.
func (s *Session) Login(ctx context.Context) (CachedToken, error) {
	return s.acquire(ctx, true)
}

// acquire requests a token with the current credentials and adopts it,
// unless Configure or Invalidate ran while the request was in flight. In
// that case the token is still returned to this caller but not cached.
func (s *Session) acquire(ctx context.Context, force bool) (CachedToken, error) {
	select {
	case s.refresh <- struct{}{}:
	case <-ctx.Done():
		return CachedToken{}, ctx.Err()
	}
	defer func() { <-s.refresh }()

	s.mu.RLock()
	creds, gen, current := s.creds, s.generation, s.token
	s.mu.RUnlock()

	// Another caller may have refreshed while we waited for our turn.
	if !force && current.Valid(s.now()) {
		return current, nil
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		return CachedToken{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return CachedToken{}, err
	}

	resp, err := s.client.RequestToken(ctx, creds.ClientID, creds.ClientSecret)
	if err != nil {
		return CachedToken{}, err
	}

	tok := newCachedToken(resp, s.now(), s.buffer)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	if s.generation == gen {
		s.token = tok
	}

	return tok, nil
}

// Configure replaces the identity and drops any cached token in one step,
// so a new identity is never paired with an old token.
func (s *Session) Configure(creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	s.token = CachedToken{}
	s.generation++
}

// Invalidate drops the cached token, keeping the identity.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = CachedToken{}
	s.generation++
}

// Status returns a snapshot without secrets or the token itself.
func (s *Session) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := SessionStatus{
		ClientID:      s.creds.ClientID,
		AppName:       s.creds.AppName,
		Configured:    s.creds.ClientID != "" && s.creds.ClientSecret != "",
		Authenticated: s.token.Valid(s.now()),
		Issued:        s.issued,
	}
	if s.token.AccessToken != "" {
		exp, refresh := s.token.ExpiresAt, s.token.RefreshAt()
		st.ExpiresAt = &exp
		st.RefreshAt = &refresh
	}
	return st
}

// Register registers the session's own credentials with the feed server.
func (s *Session) Register(ctx context.Context) (*RegisterResponse, error) {
	creds := s.Credentials()
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	return s.client.Register(ctx, RegisterRequest{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		AppName:      creds.AppName,
	})
}

// ListCurrencies fetches all rates, authenticating first if needed.
func (s *Session) ListCurrencies(ctx context.Context) ([]CurrencyRate, error) {
	token, err := s.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	rates, err := s.client.ListCurrencies(ctx, token)
	s.forgetRejected(token, err)
	return rates, err
}

// GetCurrency fetches one rate, authenticating first if needed.
func (s *Session) GetCurrency(ctx context.Context, symbol string) (*CurrencyRate, error) {
	token, err := s.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	rate, err := s.client.GetCurrency(ctx, token, symbol)
	s.forgetRejected(token, err)
	return rate, err
}

// forgetRejected drops token from the cache when the server refused it, so
// the next call re-authenticates instead of presenting it again.
func (s *Session) forgetRejected(token string, err error) {
	if !errors.Is(err, ErrInvalidToken) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.AccessToken == token {
		s.token = CachedToken{}
	}
}
