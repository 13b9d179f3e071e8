package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/zaika/pkg/auth"
	"github.com/shashiranjanraj/zaika/pkg/response"
)

// identityKey is the unexported key storing the resolved caller identity.
type identityKey struct{}

// ResolveIdentity re-resolves the user record behind a validated token.
// The bool reports whether the account is blocked. Role and blocked state
// can change between requests, so they are never read from token claims.
type ResolveIdentity func(ctx context.Context, userID string) (auth.Identity, bool, error)

// Auth validates the bearer token, re-resolves the caller from the user
// store, and injects the resulting identity into the request context.
// Handlers read it with IdentityFromCtx and pass it explicitly into
// service operations.
func Auth(resolve ResolveIdentity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w)
				return
			}

			identity, blocked, err := resolve(r.Context(), claims.UserID)
			if err != nil {
				response.Unauthorized(w)
				return
			}
			if blocked {
				response.Forbidden(w)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose freshly resolved identity is not an
// administrator. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := IdentityFromCtx(r.Context())
		if !ok || !caller.Admin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity stores the resolved caller identity in ctx.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the caller identity resolved by Auth.
func IdentityFromCtx(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}
