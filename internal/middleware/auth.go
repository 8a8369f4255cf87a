package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"drive/internal/auth"
	"drive/internal/httputil"
)

// publicPaths bypass authentication.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Auth validates the Bearer token and stores the subject as the request owner.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, httputil.CodeUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithOwner(r, claims.GetUserID()))
		})
	}
}

// DevAuth treats every request as coming from userID.
// Only wired when no JWKS endpoint is configured outside production.
func DevAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, httputil.WithOwner(r, userID))
		})
	}
}
