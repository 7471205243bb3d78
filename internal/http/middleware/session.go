package middleware

import (
	"context"
	"net/http"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/platform/auth"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// Chain bundles the two access-control checks: Authenticate resolves the
// session cookie into an identity claim, RequireRole matches the stored
// identity's role against a route's required role. Checks short-circuit;
// a rejected request never reaches the handler or the store.
type Chain struct {
	codec      *auth.Codec
	users      postgres.UserRepo
	cookieName string
	collector  metrics.Collector
}

func NewChain(codec *auth.Codec, users postgres.UserRepo, cookieName string, collector metrics.Collector) *Chain {
	return &Chain{codec: codec, users: users, cookieName: cookieName, collector: collector}
}

// Authenticate reads the session cookie and verifies the token. The resolved
// claims are attached to the request context for downstream handlers.
func (c *Chain) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(c.cookieName)
		if err != nil || cookie.Value == "" {
			c.collector.RecordAuthRejection("missing_token")
			response.Unauthorized(w, "unauthorized access")
			return
		}

		claims, err := c.codec.Parse(cookie.Value)
		if err != nil {
			c.collector.RecordAuthRejection("invalid_token")
			response.Unauthorized(w, "unauthorized access")
			return
		}

		ctx := context.WithValue(r.Context(), CtxClaims, claims)
		ctx = context.WithValue(ctx, logger.UserKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole authorizes the authenticated identity against a required role.
// Strict equality: admin does not implicitly pass a host-only check.
func (c *Chain) RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Claims(r)
			if claims == nil {
				c.collector.RecordAuthRejection("missing_token")
				response.Unauthorized(w, "unauthorized access")
				return
			}

			user, err := c.users.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to load identity for authorization", "error", err)
				response.InternalError(w, "failed to authorize request")
				return
			}
			if user == nil || user.Role != role {
				c.collector.RecordAuthRejection("role_mismatch")
				response.Forbidden(w, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Claims returns the identity claims attached by Authenticate, or nil.
func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
