package middleware

import (
	"context"
	"net/http"

	"github.com/himo-im/himo-server/internal/auth"
	"github.com/himo-im/himo-server/internal/store"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Session authenticates the request from the session cookie and puts
// the user ID on the request context.
func Session(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Parse(secret, cookie.Value)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user ID, or 0 outside a session.
func UserID(r *http.Request) int {
	id, _ := r.Context().Value(UserIDKey).(int)
	return id
}

// RequireAdmin gates admin routes. The admin flag is re-checked against
// the registry on every call rather than trusted from the token, so a
// demotion takes effect immediately.
func RequireAdmin(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := s.GetUserByID(UserID(r))
			if err != nil || !user.IsAdmin {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
