package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nteract/mythic-rtc/internal/server/jwt"
	"github.com/nteract/mythic-rtc/internal/server/service"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// testHandler is a simple handler that checks the session in context
func testHandler(t *testing.T, expected service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := service.SessionFromContext(r.Context())
		require.True(t, ok, "session should be in context")
		assert.Equal(t, expected, sess)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func rejectingHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)

	token, claims, err := tokens.Issue("work/a.ipynb")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), tokens)(testHandler(t, service.Session{
		ID:       claims.ID,
		FilePath: "work/a.ipynb",
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)

	token, claims, err := tokens.Issue("a.ipynb")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), tokens)(testHandler(t, service.Session{
		ID:       claims.ID,
		FilePath: "a.ipynb",
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer "+token)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	handler := AuthMiddleware(setupTestLogger(), tokens)(rejectingHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing token")
}

func TestAuthMiddleware_InvalidAuthHeaderFormat(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	handler := AuthMiddleware(setupTestLogger(), tokens)(rejectingHandler(t))

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "no Bearer prefix",
			header: "token123",
		},
		{
			name:   "wrong prefix",
			header: "Basic token123",
		},
		{
			name:   "only Bearer",
			header: "Bearer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token format")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)

	expired, _, err := jwt.NewService("test-secret-key", -time.Minute).Issue("a.ipynb")
	require.NoError(t, err)

	foreign, _, err := jwt.NewService("another-secret", 15*time.Minute).Issue("a.ipynb")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "random string",
			token: "randomstring123",
		},
		{
			name:  "expired token",
			token: expired,
		},
		{
			name:  "token with wrong secret",
			token: foreign,
		},
	}

	handler := AuthMiddleware(setupTestLogger(), tokens)(rejectingHandler(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token")
		})
	}
}
