package httpx

import "context"

type ctxKey string

const (
	// CtxKeyPrincipalID carries the authenticated principal's id, set once
	// by the authn middleware and read-only downstream.
	CtxKeyPrincipalID ctxKey = "principal_id"
)

// PrincipalID returns the authenticated principal id from the request
// context, or "" when the request never passed the authn middleware.
func PrincipalID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyPrincipalID).(string); ok {
		return v
	}
	return ""
}
