package auth

import (
	"context"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

// Principal is the authenticated actor of a request.
type Principal struct {
	ID       uint
	Username string
	Roles    []domain.Role
}

func (p *Principal) HasRole(r domain.Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the auth middleware, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
