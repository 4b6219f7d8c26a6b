package middleware

import (
	"context"
	"net/http"

	"github.com/ayush/blog-platform/backend/internal/auth"
	"github.com/ayush/blog-platform/backend/internal/web"
)

// RequireAuth validates the bearer token and injects the user_id into the
// request context.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := auth.BearerToken(r)
			if tok == "" {
				web.Error(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			userID, err := tokens.Verify(r.Context(), tok)
			if err != nil || userID == "" {
				web.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
