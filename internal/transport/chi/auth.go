package chi

import (
	"context"
	"net/http"
	"strings"

	"github.com/truthguard/truthguard/internal/domain"
)

// TokenVerifier resolves a bearer token to a user identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// StaticTokenVerifier verifies tokens against a fixed token to user-id map.
type StaticTokenVerifier map[string]string

// Verify implements TokenVerifier.
func (v StaticTokenVerifier) Verify(_ context.Context, token string) (string, error) {
	userID, ok := v[token]
	if !ok || userID == "" {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}

type userIDKey struct{}

// UserIDFromContext returns the authenticated user id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// exemptPrefixes are routes that bypass authentication.
var exemptPrefixes = []string{"/health", "/metrics", "/files/"}

func exempt(path string) bool {
	for _, p := range exemptPrefixes {
		if path == strings.TrimSuffix(p, "/") || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// and puts the resolved user id in the request context. A nil verifier
// disables authentication (pass-through).
func BearerAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, codeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			userID, err := verifier.Verify(r.Context(), auth[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
