package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Khushitha-V/altarmaker/handlers/auth"
	"github.com/go-chi/render"
)

type contextKey string

const ClaimsContextKey = contextKey("claims")

// AuthJWT rejects requests without a valid bearer token and places the
// parsed claims in the request context.
func AuthJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			rejectUnauthorized(w, r, "missing_header", "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			rejectUnauthorized(w, r, "malformed_header", "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := auth.ParseJWT(parts[1])
		if err != nil {
			rejectUnauthorized(w, r, "invalid_token", "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, reason, message string) {
	authRejections.WithLabelValues(reason).Inc()
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": message})
}

// ClaimsFromContext returns the authenticated claims set by AuthJWT.
func ClaimsFromContext(ctx context.Context) (*auth.AppClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.AppClaims)
	return claims, ok
}
