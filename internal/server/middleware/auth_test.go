package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medfichas/internal/server/handlers"
	"github.com/iudanet/medfichas/internal/server/jwt"
	"github.com/iudanet/medfichas/pkg/api"
)

const testSecret = "test-secret-key-0123456789"

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ownerEcho отвечает user_id из контекста
func ownerEcho(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok, "user_id should be in context")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID))
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtService := jwt.NewService(testSecret, 15*time.Minute)
	token, _, err := jwtService.GenerateAccessToken("system")
	require.NoError(t, err)

	handler := AuthMiddleware(setupTestLogger(), jwtService)(ownerEcho(t))

	for _, scheme := range []string{"Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, api.PatientsPath, nil)
		req.Header.Set("Authorization", scheme+" "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "system", w.Body.String())
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	jwtService := jwt.NewService(testSecret, 15*time.Minute)
	otherToken, _, err := jwt.NewService("another-secret-key-987654", time.Minute).GenerateAccessToken("system")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no token", header: "Bearer"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "foreign signature", header: "Bearer " + otherToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
			handler := AuthMiddleware(setupTestLogger(), jwtService)(next)

			req := httptest.NewRequest(http.MethodGet, api.PatientsPath, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(t, called, "next handler must not run")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "unauthorized", resp.Error)
		})
	}
}
