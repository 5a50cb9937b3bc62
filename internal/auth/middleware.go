package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tavernkeep/campaign-api/internal/errors"
)

type contextKey struct{}

var userIDKey contextKey

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the authenticated user ID.
// Exposed for handler tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Middleware validates the Authorization bearer token and stores the user
// ID on the request context. Requests without a valid token are rejected
// with 401 before the handler runs.
type Middleware struct {
	secret []byte
}

// NewMiddleware creates a Middleware using the given HMAC secret.
func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// Require wraps next so it only runs for authenticated requests.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			errors.WriteHTTP(w, errors.Unauthenticated("missing bearer token"))
			return
		}

		userID, err := UserIDFromToken(strings.TrimSpace(raw), m.secret)
		if err != nil {
			errors.WriteHTTP(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
