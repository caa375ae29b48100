// Package middleware provides the request-time authentication and
// authorization gates.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alumni-hub/backend/internal/models"
	"github.com/alumni-hub/backend/internal/respond"
)

// SessionResolver resolves a bearer token to its session user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.PublicUser, error)
}

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// UserFrom returns the session user attached by RequireAuth.
func UserFrom(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(models.PublicUser)
	return user, ok
}

// TokenFrom returns the bearer token attached by RequireAuth.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// RequireAuth rejects requests without a resolvable bearer token with
// 401 and attaches the session user and token to the request context.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireModerator rejects authenticated sessions whose role is neither
// admin nor moderator with 403. It must run after RequireAuth.
func RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok || !user.IsModerator() {
			respond.Error(w, http.StatusForbidden, "Forbidden - Moderator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
