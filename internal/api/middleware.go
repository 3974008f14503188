package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/plannerapp/planner-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

// requireAuth validates the bearer token and attaches user context. Tokens
// come from an external identity provider; the first request for a subject
// provisions its user row.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		user, err := s.store.EnsureUser(r.Context(), claims.UserID, claims.Email, claims.Display)
		if err != nil {
			s.logger.Error("Failed to provision user", "error", err, "user_id", claims.UserID)
			response.InternalError(w, "Failed to resolve user", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, user.ID)
		ctx = context.WithValue(ctx, contextKeyEmail, user.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimit applies per-user request limiting. Must be used after
// requireAuth so the limiter can key on the user ID.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		if !s.limiter.Allow(getUserID(r.Context())) {
			response.Error(w, http.StatusTooManyRequests, "Rate limit exceeded", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}
