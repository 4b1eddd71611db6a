package middleware

import (
	"context"

	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
)

type principalKey struct{}

// Principal is the authenticated caller attached to a request by Auth.
type Principal struct {
	UserID   string
	Role     enums.AccountType
	AccessID string
}

// PrincipalFromContext returns the caller, or the zero Principal for
// unauthenticated requests.
func PrincipalFromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Principal{}
	}
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey{}, p)
}

func UserIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).UserID
}

func RoleFromContext(ctx context.Context) string {
	return string(PrincipalFromContext(ctx).Role)
}

// AccessIDFromContext returns the jti of the access token that authenticated the request.
func AccessIDFromContext(ctx context.Context) string {
	return PrincipalFromContext(ctx).AccessID
}

func WithUserID(ctx context.Context, userID string) context.Context {
	p := PrincipalFromContext(ctx)
	p.UserID = userID
	return WithPrincipal(ctx, p)
}

func WithRole(ctx context.Context, role string) context.Context {
	p := PrincipalFromContext(ctx)
	p.Role = enums.AccountType(role)
	return WithPrincipal(ctx, p)
}

func WithAccessID(ctx context.Context, accessID string) context.Context {
	p := PrincipalFromContext(ctx)
	p.AccessID = accessID
	return WithPrincipal(ctx, p)
}
