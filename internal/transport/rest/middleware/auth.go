package middleware

import (
	"context"
	"net/http"
	"strings"

	"methodquiz/internal/service"
)

type contextKey string

const LearnerIDKey contextKey = "learnerId"

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireLearner validates the learner JWT from the Authorization header
func (m *AuthMiddleware) RequireLearner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateLearnerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), LearnerIDKey, claims.LearnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalLearner attaches the learner ID when a valid token is present and
// lets anonymous requests through. A token that fails validation is still 401.
func (m *AuthMiddleware) OptionalLearner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authSvc.ValidateLearnerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), LearnerIDKey, claims.LearnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLearnerID extracts learner ID from context
func GetLearnerID(ctx context.Context) string {
	if v := ctx.Value(LearnerIDKey); v != nil {
		return v.(string)
	}
	return ""
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
