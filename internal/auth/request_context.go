package auth

import (
	"context"

	"evently/server/internal/session"
)

type contextKey string

var sessionViewKey contextKey = "session_view"
var clientKeyKey contextKey = "client_key"

// SetSessionView stores the settled session view for downstream
// handlers. Guards set it only after deciding Proceed, so handlers can
// rely on a non-nil user.
func SetSessionView(ctx context.Context, v session.View) context.Context {
	return context.WithValue(ctx, sessionViewKey, v)
}

func GetSessionView(ctx context.Context) (session.View, bool) {
	v, ok := ctx.Value(sessionViewKey).(session.View)
	return v, ok
}

// CurrentUserID returns the authenticated account id, or "" for an
// anonymous request.
func CurrentUserID(ctx context.Context) string {
	if v, ok := GetSessionView(ctx); ok && v.User != nil {
		return v.User.ID
	}
	return ""
}

// SetClientKey records which browser session this request belongs to.
func SetClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyKey, key)
}

func GetClientKey(ctx context.Context) string {
	if k, ok := ctx.Value(clientKeyKey).(string); ok {
		return k
	}
	return ""
}
