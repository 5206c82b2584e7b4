package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/opsrota/opsrota-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	VerifyAccessToken(token string) (uuid.UUID, error)
}

// Identity resolves the acting user from a gateway-issued bearer token and
// puts the user id into the request context. Requests without a token pass
// through anonymous; mutating handlers reject those downstream.
func Identity(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			userID, err := verifier.VerifyAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
