package http

import (
	"context"
	"net/http"
	"strings"

	"fieldforce-backend/internal/security"
)

type contextKey string

const memberIDKey contextKey = "member-id"

// MemberIDFromContext returns the authenticated member's id placed there by
// the auth middleware.
func MemberIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(memberIDKey).(int32)
	return id, ok
}

// AuthMiddleware validates the Bearer access token and injects the acting
// member id into the request context.
func AuthMiddleware(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				respondJSON(w, http.StatusUnauthorized, errorBody{Error: "authorization token is not provided"})
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				respondError(w, err)
				return
			}
			if claims.Type != security.TokenTypeAccess {
				respondJSON(w, http.StatusUnauthorized, errorBody{Error: "access token required"})
				return
			}

			ctx := context.WithValue(r.Context(), memberIDKey, claims.MemberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:], true
	}
	return header, true
}
