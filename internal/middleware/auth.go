package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"moodring/internal/models"
	"moodring/internal/store"
)

type ctxKey int

const userKey ctxKey = 0

type AuthMiddleware struct {
	store store.Store
}

func NewAuthMiddleware(s store.Store) *AuthMiddleware {
	return &AuthMiddleware{store: s}
}

// RequireAuth resolves the bearer token to a user and stores it on the
// request context. Tokens are opaque strings compared against the users
// table, so a password change (which reissues the token) revokes old ones.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			unauthorized(w, "missing token")
			return
		}
		token := strings.TrimPrefix(authz, "Bearer ")
		u, err := m.store.UserByToken(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "unauthorized", "message": msg})
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated user, or nil on unauthenticated routes.
func UserFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
