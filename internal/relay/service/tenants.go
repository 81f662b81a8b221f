package service

import (
	"strconv"
	"sync"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
)

// DefaultTenantKey names the tenant built from the relay's own credentials.
const DefaultTenantKey = "default"

// Tenant is one identity the relay talks to the feed server as.
type Tenant struct {
	Key     string
	Session *feedsdk.Session

	// UserID is zero for the default tenant.
	UserID int64
}

// IsDefault reports whether t uses the statically configured identity.
func (t *Tenant) IsDefault() bool { return t.Key == DefaultTenantKey }

// TenantRegistry holds one feedsdk.Session per identity so token caches of
// different users never mix. All sessions share one SDK client.
type TenantRegistry struct {
	client *feedsdk.SDKClient
	opts   []feedsdk.SessionOption

	def *Tenant

	mu    sync.Mutex
	users map[int64]*Tenant
}

// NewTenantRegistry creates a registry whose default tenant uses creds,
// which may be empty until configured over the API.
func NewTenantRegistry(client *feedsdk.SDKClient, creds feedsdk.Credentials, opts ...feedsdk.SessionOption) *TenantRegistry {
	r := &TenantRegistry{
		client: client,
		opts:   opts,
		users:  make(map[int64]*Tenant),
	}
	r.def = &Tenant{Key: DefaultTenantKey, Session: client.NewSession(creds, opts...)}
	tenantsActive.Set(1)
	return r
}

// Client returns the shared SDK client.
func (r *TenantRegistry) Client() *feedsdk.SDKClient { return r.client }

// Default returns the tenant backed by the relay's own credentials.
func (r *TenantRegistry) Default() *Tenant { return r.def }

// ForUser returns the tenant for u, creating it on first use. If the bound
// identity changed since the tenant was built, the session is reconfigured
// and its cached token dropped.
func (r *TenantRegistry) ForUser(u domain.User, creds feedsdk.Credentials) *Tenant {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.users[u.ID]
	if !ok {
		t = &Tenant{
			Key:     "user:" + strconv.FormatInt(u.ID, 10),
			Session: r.client.NewSession(creds, r.opts...),
			UserID:  u.ID,
		}
		r.users[u.ID] = t
		tenantsActive.Set(float64(len(r.users) + 1))
		return t
	}

	if t.Session.Credentials() != creds {
		t.Session.Configure(creds)
	}
	return t
}

// Forget drops the tenant of a user, discarding its cached token.
func (r *TenantRegistry) Forget(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.users[userID]; ok {
		t.Session.Invalidate()
		delete(r.users, userID)
		tenantsActive.Set(float64(len(r.users) + 1))
	}
}

// Len returns the number of tenants including the default one.
func (r *TenantRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users) + 1
}
