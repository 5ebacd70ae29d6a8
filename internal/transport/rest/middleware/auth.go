package middleware

import (
	"net/http"
	"strings"

	"promptscore/internal/logging"
	"promptscore/internal/service"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireClient validates a client JWT from the Authorization header or the
// token query param. It is a no-op when auth is not configured.
func (m *AuthMiddleware) RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.authSvc.Enabled() || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := ExtractToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(logging.WithClientID(r.Context(), claims.ClientID)))
	})
}

// ExtractToken reads a bearer token, falling back to the token query param
// used by WebSocket clients
func ExtractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
