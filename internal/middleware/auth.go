package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/services"
)

type contextKey string

const callerKey contextKey = "caller"

// TokenValidator turns a bearer token into the caller it identifies
type TokenValidator interface {
	ValidateJWT(token string) (services.Caller, error)
}

// AuthMiddleware creates a middleware for JWT authentication
func AuthMiddleware(auth TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthenticated(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthenticated(w, "Invalid authorization header format")
				return
			}

			caller, err := auth.ValidateJWT(parts[1])
			if err != nil {
				respondUnauthenticated(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// WithCaller attaches an authenticated caller to ctx
func WithCaller(ctx context.Context, caller services.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller extracts the caller from context. The zero Caller means unauthenticated.
func GetCaller(ctx context.Context) services.Caller {
	caller, ok := ctx.Value(callerKey).(services.Caller)
	if !ok {
		return services.Caller{}
	}
	return caller
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	return GetCaller(ctx).UserID
}

func respondUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  string(apperr.Unauthenticated),
	})
}
