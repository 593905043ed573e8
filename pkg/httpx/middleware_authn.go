package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/strataboard/strata/pkg/slogx"
	"github.com/strataboard/strata/pkg/tokenx"
)

// AuthnMiddleware establishes the request's principal from a bearer token.
// It is the only stage that writes the principal into the context; every
// later stage (including the community-admin filter) just reads it.
//
// The codec deliberately leaves expiry to its caller, so the check happens
// here.
func AuthnMiddleware(codec tokenx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			identity, err := codec.Decode(raw)
			if err != nil {
				log.Warn("token decode failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			if time.Now().After(identity.ExpiresAt) {
				writeBearerError(w, "token expired")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyPrincipalID, identity.PrincipalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth failures.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
