package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/logger"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// ClaimsFromContext извлекает данные токена из контекста запроса
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

// ContextWithClaims кладет данные токена в контекст
func ContextWithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// AuthMiddleware проверяет bearer-токен и кладет его данные в контекст
func AuthMiddleware(tokens *auth.Service, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Warn("Token validation failed")
				if err == auth.ErrTokenExpired {
					writeAuthError(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
