package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID is the context key under which the authentication
	// middleware stores the resolved principal's id.
	CtxKeyUserID ctxKey = "user_id"
)

// UserIDFromContext returns the resolved principal id, or "" when the request
// is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
