package ctxutil

import "context"

// Principal is the authenticated identity injected by the auth middleware.
// Role is the role claimed by the token at issue time; services that gate
// privileged transitions re-load the user record rather than trusting it.
type Principal struct {
	UserID string
	Role   string
}

type principalKeyType struct{}

var principalKey = principalKeyType{}

// WithPrincipal injects the authenticated principal into ctx. Called by the
// auth middleware after the JWT has been validated:
//
//	ctx := ctxutil.WithPrincipal(c.Request.Context(), p)
//	c.Request = c.Request.WithContext(ctx)
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the principal from ctx, reporting whether one is set.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// GetUserID extracts just the user id from ctx.
func GetUserID(ctx context.Context) (string, bool) {
	p, ok := GetPrincipal(ctx)
	return p.UserID, ok
}
