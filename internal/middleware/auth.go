package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/lifelink/internal/http/respond"
)

type ctxKeyUsername struct{}

// TokenVerifier validates a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// WithUsername stores the authenticated username on ctx.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKeyUsername{}, username)
}

// UsernameFromContext returns the username set by RequireAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(ctxKeyUsername{}).(string)
	return u, ok && u != ""
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				respond.Error(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
				return
			}
			username, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}
