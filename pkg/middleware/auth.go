package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/chenweihao/weishop/pkg/response"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity in the request context for handlers and rbac to read.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		rc := context.WithValue(r.Context(), userIDKey, claims.UserID)
		rc = context.WithValue(rc, roleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(rc))
	})
}

// UserIDFromCtx returns the authenticated user's id, if any.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey).(uint)
	return id, ok
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey).(string)
	return role, ok
}
