package http

import (
	"context"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/domain"
	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
)

type ctxKey int

const (
	tenantKey ctxKey = iota
	userKey
)

func withTenant(ctx context.Context, t *service.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// TenantFromContext returns the tenant resolved for the request.
func TenantFromContext(ctx context.Context) (*service.Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(*service.Tenant)
	return t, ok
}

func withUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the logged in user, if the request carried a
// valid session cookie.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}
