package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/auth"
	"github.com/example/ec-shop-core/internal/authz"
)

type contextKey string

const sessionContextKey contextKey = "session"

// extractToken pulls the access token from the cookie or, for API clients,
// the Authorization header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// SessionFrom returns the authenticated session stored in ctx, or nil when
// the request carried no valid token.
func SessionFrom(ctx context.Context) *authz.Session {
	sess, _ := ctx.Value(sessionContextKey).(*authz.Session)
	return sess
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(tokens *auth.TokenService, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				respondError(w, logger, apperr.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				respondError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth stores the session when a valid token is present but lets
// anonymous requests through. Used on the public catalog routes so admins
// see unpublished products.
func OptionalAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString := extractToken(r); tokenString != "" {
				if claims, err := tokens.Verify(tokenString); err == nil {
					ctx := context.WithValue(r.Context(), sessionContextKey, claims.Session())
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
