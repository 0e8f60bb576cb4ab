package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"care-dispatch/internal/auth"
	"care-dispatch/internal/config"
	"care-dispatch/internal/handlers"
	"care-dispatch/internal/logger"
	"care-dispatch/internal/middleware"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.LoggerConfig{Level: "panic", Format: "text"})
}

// protectedChain собирает цепочку защищенного маршрута так же, как main:
// CORS снаружи, авторизация внутри.
func protectedChain(tokens *auth.Service, next http.HandlerFunc) http.Handler {
	authed := middleware.AuthMiddleware(tokens, newTestLogger())
	return http.HandlerFunc(handlers.CORSMiddleware(authed(next).ServeHTTP))
}

func TestPreflightBypassesAuth(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	called := false
	chain := protectedChain(tokens, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	r := httptest.NewRequest(http.MethodOptions, "/user/feed/post", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", "POST")
	r.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("preflight without token must pass, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight must carry CORS headers, got origin %q", got)
	}
	if called {
		t.Fatalf("preflight must not reach the handler")
	}
}

func TestMissingTokenRejectedWithCORSHeaders(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	chain := protectedChain(tokens, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not be called without token")
	})

	r := httptest.NewRequest(http.MethodPost, "/user/feed/post", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("error response must carry CORS headers, got origin %q", got)
	}
}

func TestValidTokenReachesHandlerWithClaims(t *testing.T) {
	tokens := auth.NewService("test-secret", time.Hour)
	token, err := tokens.Issue(42, auth.RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got auth.Claims
	chain := protectedChain(tokens, func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			t.Fatalf("claims must be in context")
		}
		got = claims
	})

	r := httptest.NewRequest(http.MethodPost, "/user/feed/post", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.AccountID != 42 || got.Role != auth.RoleUser {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := auth.NewService("test-secret", time.Nanosecond)
	token, err := issuer.Issue(42, auth.RoleUser, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	tokens := auth.NewService("test-secret", time.Hour)
	chain := protectedChain(tokens, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not be called with expired token")
	})

	r := httptest.NewRequest(http.MethodPost, "/user/feed/post", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
