package service

import (
	"context"

	"campus-identity/internal/domain"
)

// Principal es la identidad derivada del token validado para la request en curso.
type Principal struct {
	UserID string
	Role   string
}

func PrincipalFromClaims(c Claims) Principal {
	return Principal{UserID: c.Subject, Role: c.Role}
}

type principalKey struct{}

// WithPrincipal adjunta el principal al contexto de la request.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}

// RequireRole compara el claim role contra los permitidos.
func RequireRole(p Principal, allowed ...string) error {
	if p.UserID == "" {
		return ErrUnauthorized
	}
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireSelfOrAdmin permite al dueño del recurso o a un admin.
func RequireSelfOrAdmin(p Principal, targetUserID string) error {
	if p.UserID == "" {
		return ErrUnauthorized
	}
	if p.UserID == targetUserID || p.Role == domain.RoleAdmin {
		return nil
	}
	return ErrForbidden
}
