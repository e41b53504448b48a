package httpx

import (
	"context"
	"strconv"
)

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Admin    bool
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, strconv.FormatInt(p.UserID, 10))
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFrom returns the caller set by AuthnMiddleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}
