package httpx

import "context"

type ctxKey string

const (
	CtxKeySubject   ctxKey = "subject"
	CtxKeyPrincipal ctxKey = "principal"
)

// PrincipalFromContext returns the principal stored by AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}

// SubjectFromContext returns the authenticated subject, or "" if none.
func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(CtxKeySubject).(string); ok {
		return s
	}
	return ""
}

func contextWithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, p.Subject)
	ctx = context.WithValue(ctx, CtxKeyPrincipal, p)
	return ctx
}
