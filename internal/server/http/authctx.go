package httpserver

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/licensegate/licensegate/internal/model"
)

// Principal is the authenticated caller, passed explicitly through the
// request context. Admin operations check its role; nothing reads ambient
// session state.
type Principal struct {
	UserID uuid.UUID
	Role   model.Role
}

type ctxKey string

const principalKey ctxKey = "lg.principal"

// WithPrincipal stores the authenticated principal in context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the principal from context.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
