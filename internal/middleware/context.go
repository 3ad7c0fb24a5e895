package middleware

import (
	"context"

	"craftfield.org/atelier-web/internal/api"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyScope     ctxKey = "scope"
	ctxKeyPrincipal ctxKey = "principal"
)

// WithScope stores the browser scope id in context.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, ctxKeyScope, scope)
}

// ScopeID returns the browser scope id established by the Scope middleware.
func ScopeID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyScope).(string)
	return v
}

// WithPrincipal stores the restored principal in context.
func WithPrincipal(ctx context.Context, p *api.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the restored principal, or nil when anonymous.
func PrincipalFromContext(ctx context.Context) *api.Principal {
	if v := ctx.Value(ctxKeyPrincipal); v != nil {
		if p, ok := v.(*api.Principal); ok {
			return p
		}
	}
	return nil
}

// BearerToken yields the held principal's credential for outgoing backend
// calls, or empty when anonymous.
func BearerToken(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Token
	}
	return ""
}
